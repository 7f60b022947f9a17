package media

import (
	"path"
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
)

const OctetStream = "application/octet-stream"

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// Suffixes used only to guess a player type when the mime type is unknown.
var (
	videoHints = []string{".mov", ".m4v", ".avi", ".mkv", ".m3u8", ".ogv", "youtube.com/", "youtu.be/", "vimeo.com/"}
	imageHints = []string{".svg", ".bmp", ".tif", ".tiff", ".avif", ".heic", ".ico"}
)

// Object keys that may carry the URL of a media item.
var urlKeys = []string{"src", "file", "url", "playUrl", "image", "imageUrl", "image_url"}

// Normalizer turns loosely shaped image and video references into ordered
// media descriptors.
type Normalizer struct {
	fields []string
	prober Prober
}

// NewNormalizer uses imageFields in order; the first one yielding at least
// one URL wins. A nil prober disables content-type probing.
func NewNormalizer(imageFields []string, prober Prober) *Normalizer {
	if prober == nil {
		prober = NoopProber{}
	}
	return &Normalizer{
		fields: imageFields,
		prober: prober,
	}
}

type item struct {
	url      string
	thumb    string
	mime     string
	duration float64
	size     int64
}

// Normalize collects media from rec. The result is never nil.
func (n *Normalizer) Normalize(rec fields.Record) []models.Media {
	for _, key := range n.fields {
		v := fields.Resolve(rec, key)
		if v == nil {
			continue
		}
		if items := collect(v); len(items) > 0 {
			return n.describe(items)
		}
	}
	return make([]models.Media, 0)
}

// FromValue normalizes a single raw value (string, list of strings or list
// of objects).
func (n *Normalizer) FromValue(v any) []models.Media {
	return n.describe(collect(v))
}

// FromURLs builds descriptors for already extracted URLs.
func (n *Normalizer) FromURLs(urls []string) []models.Media {
	items := make([]item, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			items = append(items, item{url: u})
		}
	}
	return n.describe(items)
}

// Thumbnail is the first media URL, or "".
func Thumbnail(list []models.Media) string {
	if len(list) == 0 {
		return ""
	}
	return list[0].PlayURL
}

func (n *Normalizer) describe(items []item) []models.Media {
	out := make([]models.Media, 0, len(items))
	for i, it := range items {
		mime := it.mime
		if mime == "" {
			mime = n.MimeType(it.url)
		}
		player := PlayerType(mime, it.url)
		thumb := it.thumb
		if thumb == "" {
			thumb = it.url
		}
		out = append(out, models.Media{
			MediaType:      player,
			PlayerTypeEnum: player,
			PlayURL:        it.url,
			ThumbnailURL:   thumb,
			MimeType:       mime,
			Weight:         i,
			Duration:       it.duration,
			Size:           it.size,
		})
	}
	return out
}

// MimeType infers from the extension and asks the prober only on a miss.
func (n *Normalizer) MimeType(rawURL string) string {
	mime := MimeFromExtension(rawURL)
	if mime != OctetStream {
		return mime
	}
	if probed, ok := n.prober.Probe(rawURL); ok && probed != "" {
		return probed
	}
	return OctetStream
}

// MimeFromExtension maps the URL path suffix to a mime type, ignoring case,
// query and fragment.
func MimeFromExtension(rawURL string) string {
	ext := strings.ToLower(path.Ext(stripQuery(rawURL)))
	if mime, ok := extensionTypes[ext]; ok {
		return mime
	}
	return OctetStream
}

// PlayerType derives IMAGE or VIDEO from the mime prefix, then from URL
// hints, else UNKNOWN.
func PlayerType(mime, rawURL string) string {
	mime = strings.ToLower(mime)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaImage
	case strings.HasPrefix(mime, "video/"):
		return models.MediaVideo
	}

	lower := strings.ToLower(stripQuery(rawURL))
	for _, hint := range videoHints {
		if strings.HasSuffix(lower, hint) || (strings.HasSuffix(hint, "/") && strings.Contains(lower, hint)) {
			return models.MediaVideo
		}
	}
	for _, hint := range imageHints {
		if strings.HasSuffix(lower, hint) {
			return models.MediaImage
		}
	}
	if ext := path.Ext(lower); ext != "" {
		if known, ok := extensionTypes[ext]; ok {
			return PlayerType(known, "")
		}
	}
	return models.MediaUnknown
}

func stripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

func collect(v any) []item {
	var items []item
	switch t := v.(type) {
	case string:
		for _, u := range fields.Strings(t) {
			items = append(items, item{url: u})
		}
	case []any:
		for _, el := range t {
			switch e := el.(type) {
			case string:
				if u := strings.TrimSpace(e); u != "" {
					items = append(items, item{url: u})
				}
			case map[string]any:
				if it, ok := fromObject(e); ok {
					items = append(items, it)
				}
			}
		}
	case map[string]any:
		if it, ok := fromObject(t); ok {
			items = append(items, it)
		}
	}
	return items
}

func fromObject(obj fields.Record) (item, bool) {
	var u string
	for _, key := range urlKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			u = strings.TrimSpace(s)
			break
		}
	}
	if u == "" {
		return item{}, false
	}

	it := item{url: u}
	if s, ok := obj["thumbnailUrl"].(string); ok {
		it.thumb = strings.TrimSpace(s)
	}
	if s, ok := obj["mimeType"].(string); ok {
		it.mime = strings.TrimSpace(s)
	}
	it.duration = fields.Float(obj["duration"])
	it.size = int64(fields.Float(obj["size"]))
	return it, true
}
