// Package codec normalises in-memory images to JPEG before they are stored.
//
// Images in a colour mode JPEG cannot carry (alpha channels, palettes) are copied
// to opaque RGB first. Quality is validated once, when the Encoder is built.
// Decode and Open turn raw bytes or files back into images for uploads that do
// not start from an image.Image.
package codec
