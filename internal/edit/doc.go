// Package edit defines the editing data model: a resolved cut/transform
// request (Spec), the seven-parameter color grade, and the project's
// segment list. The core packages read these values and never mutate them;
// construction and mutation belong to the calling layer.
package edit
