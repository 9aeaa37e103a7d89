package entity

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type NodeKind string

const (
	KindText    NodeKind = "text"
	KindImage   NodeKind = "image"
	KindGallery NodeKind = "gallery"
	KindLink    NodeKind = "link"
)

type ImageState string

const (
	ImageInline   ImageState = "inline"
	ImageResolved ImageState = "resolved"
)

const imagesField = "images"

var (
	ErrEmptyImage      = errors.New("empty image reference")
	ErrMalformedInline = errors.New("malformed inline image")
)

// PostContent is the node graph a post is made of.
// Edges are kept verbatim, nodes are decoded far enough to reach their images.
type PostContent struct {
	Nodes []Node            `json:"nodes"`
	Edges []json.RawMessage `json:"edges,omitempty"`
}

type Node struct {
	ID       string          `json:"id"`
	Type     NodeKind        `json:"type,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
	Data     NodeData        `json:"data"`
}

// NodeData holds the images of a node. Every other key is preserved in Fields.
type NodeData struct {
	Images []NodeImage
	Fields map[string]json.RawMessage
}

// NodeImage is either an inline payload awaiting upload or a resolved URL.
type NodeImage struct {
	State       ImageState
	ContentType string
	Data        []byte
	URL         string
}

func InlineImage(contentType string, data []byte) NodeImage {
	return NodeImage{State: ImageInline, ContentType: contentType, Data: data}
}

func ResolvedImage(url string) NodeImage {
	return NodeImage{State: ImageResolved, URL: url}
}

func (i NodeImage) IsInline() bool {
	return i.State == ImageInline
}

func (i NodeImage) MarshalJSON() ([]byte, error) {
	if i.IsInline() {
		uri := "data:" + i.ContentType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
		return json.Marshal(uri)
	}

	return json.Marshal(i.URL)
}

// UnmarshalJSON accepts "data:<mime>;base64,<payload>" for inline images,
// any other string as a URL, and {"url": "..."} objects.
func (i *NodeImage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.URL == "" {
			return ErrEmptyImage
		}
		*i = ResolvedImage(obj.URL)

		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmptyImage
	}

	if !strings.HasPrefix(s, "data:") {
		*i = ResolvedImage(s)
		return nil
	}

	img, err := parseDataURI(s)
	if err != nil {
		return err
	}
	*i = img

	return nil
}

func parseDataURI(s string) (NodeImage, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return NodeImage{}, fmt.Errorf("%w: missing payload", ErrMalformedInline)
	}

	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return NodeImage{}, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformedInline)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return NodeImage{}, fmt.Errorf("%w: %v", ErrMalformedInline, err)
	}
	if len(data) == 0 {
		return NodeImage{}, fmt.Errorf("%w: empty payload", ErrMalformedInline)
	}

	return InlineImage(contentType, data), nil
}

func (d NodeData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		m[k] = v
	}
	if d.Images != nil {
		m[imagesField] = d.Images
	}

	return json.Marshal(m)
}

func (d *NodeData) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = NodeData{}
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := NodeData{}

	if imgs, ok := raw[imagesField]; ok {
		if err := json.Unmarshal(imgs, &out.Images); err != nil {
			return fmt.Errorf("images: %w", err)
		}
		delete(raw, imagesField)
	}

	if len(raw) > 0 {
		out.Fields = raw
	}

	*d = out

	return nil
}

// InlineCount reports how many images still await upload.
func (c PostContent) InlineCount() int {
	n := 0

	for _, node := range c.Nodes {
		for _, img := range node.Data.Images {
			if img.IsInline() {
				n++
			}
		}
	}

	return n
}

// ResolvedURLs lists resolved image URLs in node order, then image order.
func (c PostContent) ResolvedURLs() []string {
	var urls []string

	for _, node := range c.Nodes {
		for _, img := range node.Data.Images {
			if !img.IsInline() {
				urls = append(urls, img.URL)
			}
		}
	}

	return urls
}
