package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

const maxFormMemory = 32 << 20

// File fields recognised on upload forms, in lookup order.
var fileFields = []string{"images", "image", "files", "file"}

// form wraps a parsed multipart or urlencoded request body.
type form struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

func parseForm(c *gin.Context) (*form, error) {
	req := c.Request
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		if err := req.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
	} else if err := req.ParseForm(); err != nil {
		return nil, err
	}

	f := &form{values: req.PostForm}
	if req.MultipartForm != nil {
		f.files = req.MultipartForm.File
	}
	return f, nil
}

// lookup returns the first present key's values.
func (f *form) lookup(keys ...string) ([]string, bool) {
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// str returns nil when none of keys is present.
func (f *form) str(keys ...string) *string {
	v, ok := f.lookup(keys...)
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}

func (f *form) boolean(keys ...string) (*bool, error) {
	s := f.str(keys...)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*s))
	if err != nil {
		return nil, &services.ValidationError{Field: keys[0], Message: "must be true or false"}
	}
	return &b, nil
}

func (f *form) int64(keys ...string) (*int64, error) {
	s := f.str(keys...)
	if s == nil {
		return nil, nil
	}
	if strings.TrimSpace(*s) == "" {
		zero := int64(0)
		return &zero, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return nil, &services.ValidationError{Field: keys[0], Message: "must be a whole number"}
	}
	return &n, nil
}

// cents parses a decimal amount such as "1250" or "1250.50" into cents.
func (f *form) cents(keys ...string) (*int64, error) {
	s := f.str(keys...)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &services.ValidationError{Field: keys[0], Message: "must be a number"}
	}
	c := int64(math.Round(v * 100))
	return &c, nil
}

// list reads a repeated field or a single JSON array value. The boolean
// reports whether any of keys was present at all.
func (f *form) list(keys ...string) ([]string, bool, error) {
	v, ok := f.lookup(keys...)
	if !ok {
		return nil, false, nil
	}

	var out []string
	for _, item := range v {
		item = strings.TrimSpace(item)
		switch {
		case item == "":
		case strings.HasPrefix(item, "["):
			var arr []string
			if err := json.Unmarshal([]byte(item), &arr); err != nil {
				return nil, true, &services.ValidationError{Field: keys[0], Message: "must be a JSON array of strings"}
			}
			out = append(out, arr...)
		default:
			out = append(out, item)
		}
	}
	return out, true, nil
}

func (f *form) uploads() []*multipart.FileHeader {
	var out []*multipart.FileHeader
	for _, name := range fileFields {
		out = append(out, f.files[name]...)
	}
	return out
}

// imageChange reads the single-image fields: a file, a pre-resolved URL,
// or imageAction=keep|remove (removeImage=true is accepted too).
func (f *form) imageChange() (services.ImageChange, error) {
	var change services.ImageChange

	if files := f.uploads(); len(files) > 0 {
		change.File = files[0]
	}
	if u := f.str("imageUrl", "image_url"); u != nil {
		change.URL = strings.TrimSpace(*u)
	}

	if action := f.str("imageAction", "image_action"); action != nil {
		switch strings.ToLower(strings.TrimSpace(*action)) {
		case "", "keep":
		case "remove":
			change.Remove = true
		default:
			return change, &services.ValidationError{Field: "imageAction", Message: fmt.Sprintf("unknown action %q", *action)}
		}
	}
	remove, err := f.boolean("removeImage", "remove_image")
	if err != nil {
		return change, err
	}
	if remove != nil && *remove {
		change.Remove = true
	}
	return change, nil
}

func parseFormOrFail(c *gin.Context) (*form, bool) {
	f, err := parseForm(c)
	if err != nil {
		badRequest(c, "failed to parse form", err)
		return nil, false
	}
	return f, true
}
