package content

import (
	"context"
	"encoding/json"
	"fmt"
	log "github.com/sirupsen/logrus"
	"strings"
)

type TagMapping map[string]string

// TransformTag tries an exact key, then the lower-cased key, then gives the tag back unchanged.
func TransformTag(tag string, mapping TagMapping) string {
	if label := mapping[tag]; label != "" {
		return label
	}
	if label := mapping[strings.ToLower(tag)]; label != "" {
		return label
	}
	return tag
}

func TransformTopics(topics []string, mapping TagMapping) []string {
	transformed := make([]string, len(topics))
	for i, topic := range topics {
		transformed[i] = TransformTag(topic, mapping)
	}
	return transformed
}

// ParseTagMapping accepts both {"tagMapping": {...}} and a flat object.
func ParseTagMapping(text string) (TagMapping, error) {
	var wrapped struct {
		TagMapping TagMapping `json:"tagMapping"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.TagMapping != nil {
		return wrapped.TagMapping, nil
	}

	raw := make(map[string]interface{})
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decoding tag mapping error. Reason: %v", err)
	}
	mapping := make(TagMapping, len(raw))
	for key, value := range raw {
		if label, ok := value.(string); ok {
			mapping[key] = label
		}
	}
	return mapping, nil
}

// Store

type MappingLoader interface {
	LoadTagMapping(ctx context.Context) (TagMapping, error)
}

type MappingCachePort interface {
	FindTagMapping() (TagMapping, bool)
	PutTagMapping(mapping TagMapping)
	RemoveTagMapping()
}

// TagMappingStore loads the mapping once per process. Concurrent first readers may each load it;
// they all store an equal value.
type TagMappingStore struct {
	loader MappingLoader
	cache  MappingCachePort
}

func NewTagMappingStore(loader MappingLoader, cache MappingCachePort) *TagMappingStore {
	return &TagMappingStore{
		loader: loader,
		cache:  cache,
	}
}

// Load never fails: a mapping that cannot be loaded is remembered as empty.
func (store *TagMappingStore) Load(ctx context.Context) TagMapping {
	if mapping, found := store.cache.FindTagMapping(); found {
		return mapping
	}

	mapping := TagMapping{}
	if store.loader != nil {
		loaded, err := store.loader.LoadTagMapping(ctx)
		if err != nil {
			log.Warnf("Loading tag mapping error. Tags pass through unchanged. Reason: %v", err)
		} else if loaded != nil {
			mapping = loaded
		}
	}
	store.cache.PutTagMapping(mapping)
	return mapping
}

// Prime stores a mapping fetched as a side product of another request, unless one is loaded already.
func (store *TagMappingStore) Prime(mapping TagMapping) bool {
	if _, found := store.cache.FindTagMapping(); found {
		return false
	}
	if mapping == nil {
		mapping = TagMapping{}
	}
	store.cache.PutTagMapping(mapping)
	return true
}

func (store *TagMappingStore) Loaded() bool {
	_, found := store.cache.FindTagMapping()
	return found
}

func (store *TagMappingStore) Reset() {
	store.cache.RemoveTagMapping()
}
