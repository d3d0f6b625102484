package model

// SourceImage is the read-only input to one batch call: the encoded image
// bytes plus the detected format tag (e.g. "jpg", "png"). An empty Type
// means the format could not be derived and the batch must be rejected.
type SourceImage struct {
	Data []byte
	Type string
}
