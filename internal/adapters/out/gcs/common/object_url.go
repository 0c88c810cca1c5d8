// internal/adapters/out/gcs/common/object_url.go
package common

import (
	"fmt"
	"net/url"
	"strings"
)

const publicHost = "storage.googleapis.com"

// ObjectURL は公開バケット上の 1 オブジェクトを指します。
type ObjectURL struct {
	Bucket string
	Object string
}

// String returns https://storage.googleapis.com/<bucket>/<object> (object path escaped per segment).
func (o ObjectURL) String() string {
	obj := strings.TrimLeft(strings.TrimSpace(o.Object), "/")
	segs := strings.Split(obj, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://%s/%s/%s", publicHost, strings.TrimSpace(o.Bucket), strings.Join(segs, "/"))
}

// ParseObjectURL parses a public GCS URL.
// storage.cloud.google.com (認証付きリンク) も受け付けます。
func ParseObjectURL(u string) (ObjectURL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return ObjectURL{}, false
	}

	host := strings.ToLower(parsed.Host)
	if host != publicHost && host != "storage.cloud.google.com" {
		return ObjectURL{}, false
	}

	bucket, rest, ok := strings.Cut(strings.TrimLeft(parsed.EscapedPath(), "/"), "/")
	if !ok || bucket == "" || rest == "" {
		return ObjectURL{}, false
	}
	object, err := url.PathUnescape(rest)
	if err != nil {
		return ObjectURL{}, false
	}
	return ObjectURL{Bucket: bucket, Object: object}, true
}
