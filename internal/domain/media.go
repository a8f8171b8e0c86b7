package domain

import (
	"path"
	"strings"
)

// Gallery types stored next to the comma-joined media list.
const (
	GalleryTypeImage = "image"
	GalleryTypeVideo = "video"
)

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
}

// NormalizePath converts platform separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// InferGalleryType tags the whole gallery from its first file.
func InferGalleryType(paths []string) *string {
	if len(paths) == 0 {
		return nil
	}
	kind := GalleryTypeImage
	if _, ok := videoExtensions[strings.ToLower(path.Ext(NormalizePath(paths[0])))]; ok {
		kind = GalleryTypeVideo
	}
	return &kind
}

// JoinMediaPaths joins gallery paths for storage; nil when empty.
func JoinMediaPaths(paths []string) *string {
	if len(paths) == 0 {
		return nil
	}
	joined := strings.Join(paths, ",")
	return &joined
}

// SplitMediaPaths is the inverse of JoinMediaPaths.
func SplitMediaPaths(joined *string) []string {
	if joined == nil {
		return nil
	}
	var out []string
	for _, p := range strings.Split(*joined, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RemoveMediaPaths drops every path listed in removed and reports which of
// them were actually present.
func RemoveMediaPaths(paths, removed []string) (kept, dropped []string) {
	drop := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		drop[NormalizePath(strings.TrimSpace(r))] = struct{}{}
	}
	for _, p := range paths {
		if _, ok := drop[p]; ok {
			dropped = append(dropped, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, dropped
}
