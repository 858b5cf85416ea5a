package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys are prefixed by record kind so a project and a template sharing a
// name never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ProjectUUID identifies a project declared in a manifest by its slug.
func ProjectUUID(slug string) uuid.UUID {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return uuid.Nil
	}
	return UUID("sitegen:project:" + slug)
}

// TemplateUUID identifies a manifest template within its project.
func TemplateUUID(projectID uuid.UUID, name string) uuid.UUID {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return uuid.Nil
	}
	return UUID("sitegen:template:" + projectID.String() + ":" + name)
}

// SourceID is the stable string id of a manifest data source.
func SourceID(projectID uuid.UUID, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return UUID("sitegen:source:" + projectID.String() + ":" + name).String()
}
