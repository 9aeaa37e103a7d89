package entity

// StoredObject is an uploaded payload as the object store knows it.
type StoredObject struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
