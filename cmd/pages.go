package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"page-store/core/codec"
	"page-store/feature/pages"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFlag  string
	metaFlags   []string
	startFlag   int
	prefixFlag  string
	maxKeysFlag int
	jsonFlag    bool
	ignoreFlag  bool
)

// getCmd downloads one page.
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Download a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			data, err := m.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outputFlag == "" || outputFlag == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outputFlag, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFlag, err)
			}
			logg.Info("Page saved", zap.String("path", outputFlag), zap.Int("bytes", len(data)))
			return nil
		})
	},
}

// fetchCmd downloads several pages concurrently.
var fetchCmd = &cobra.Command{
	Use:   "fetch <key>...",
	Short: "Download several pages concurrently into a directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFlag == "" {
			return fmt.Errorf("--output directory is required")
		}
		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			results, err := m.GetMany(cmd.Context(), args, ignoreFlag)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outputFlag, 0o755); err != nil {
				return err
			}
			for i, data := range results {
				if data == nil {
					continue
				}
				path := filepath.Join(outputFlag, strconv.Itoa(i+1)+pages.Extension)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
			}
			logg.Info("Pages saved", zap.String("dir", outputFlag), zap.Int("requested", len(args)))
			return nil
		})
	},
}

// putCmd uploads one image under a chosen key.
var putCmd = &cobra.Command{
	Use:   "put <key> <image-file>",
	Short: "Upload one image as a JPEG page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := parseMetadata(metaFlags)
		if err != nil {
			return err
		}
		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			key, err := m.UploadSingle(cmd.Context(), args[0], args[1], meta)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		})
	},
}

// uploadCmd performs a grouped upload of consecutive pages.
var uploadCmd = &cobra.Command{
	Use:   "upload <session-id> <file-name> <image-file>...",
	Short: "Upload images as consecutive pages of one document",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}
		meta, err := parseMetadata(metaFlags)
		if err != nil {
			return err
		}

		images := make([]image.Image, 0, len(args)-2)
		for _, path := range args[2:] {
			img, err := codec.Open(path)
			if err != nil {
				return err
			}
			images = append(images, img)
		}

		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			keys, err := m.PutMany(cmd.Context(), sessionID, args[1], images, startFlag, meta)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		})
	},
}

// listCmd lists keys.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored page keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			keys, err := m.List(cmd.Context(), prefixFlag, maxKeysFlag)
			if err != nil {
				return err
			}
			if jsonFlag {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(keys)
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		})
	},
}

// deleteCmd removes one page.
var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			deleted, err := m.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), deleted)
			return nil
		})
	},
}

// existsCmd checks one key. It exits non-zero when the key is absent.
var existsCmd = &cobra.Command{
	Use:   "exists <key>",
	Short: "Check whether a page is stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			exists, err := m.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			if !exists {
				return fmt.Errorf("%s: %w", args[0], pages.ErrNotFound)
			}
			return nil
		})
	},
}

func init() {
	getCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the page to this file instead of stdout")
	fetchCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "directory to write pages into")
	fetchCmd.Flags().BoolVar(&ignoreFlag, "ignore-missing", false, "skip keys that are not stored")
	putCmd.Flags().StringArrayVarP(&metaFlags, "meta", "m", nil, "object metadata as key=value (repeatable)")
	uploadCmd.Flags().StringArrayVarP(&metaFlags, "meta", "m", nil, "object metadata as key=value (repeatable)")
	uploadCmd.Flags().IntVar(&startFlag, "start", 1, "page number of the first image")
	listCmd.Flags().StringVar(&prefixFlag, "prefix", "", "only list keys with this prefix")
	listCmd.Flags().IntVar(&maxKeysFlag, "max-keys", pages.DefaultMaxKeys, "maximum number of keys")
	listCmd.Flags().BoolVar(&jsonFlag, "json", false, "print keys as a JSON array")

	RootCmd.AddCommand(getCmd, fetchCmd, putCmd, uploadCmd, listCmd, deleteCmd, existsCmd)
}
