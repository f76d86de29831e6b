package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/model"
)

// postCacheKey is shared by every service that mutates a post, so any write
// path invalidates the same cached read.
func postCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id)
}

func encodePost(post *model.Post) []byte {
	data, err := json.Marshal(post)
	if err != nil {
		return nil
	}
	return data
}

func decodePost(data []byte) *model.Post {
	var post model.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil
	}
	return &post
}
