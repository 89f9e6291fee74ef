package signature

import (
	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/constant"
)

// SourceName identifies which lookup path produced a result.
type SourceName string

const (
	SourceStructured SourceName = "document_signatures"
	SourceLegacy     SourceName = "documents"
	SourceStorage    SourceName = "storage"
	SourceSettings   SourceName = "settings"
	SourceCache      SourceName = "cache"
)

// Criteria scopes one signature lookup. UserID is ignored for global types;
// CompanyID only matters for representative/seal lookups without a UserID.
type Criteria struct {
	SignatureType constant.SignatureType
	DocumentType  constant.DocumentType
	TrainingID    string
	UserID        string
	CompanyID     string
}

func (c Criteria) CacheKey() string {
	return cache.Key(c.SignatureType, c.DocumentType, c.TrainingID, c.UserID, c.CompanyID)
}

// Result is the outcome of a resolution or persistence call. A miss is not
// an error: Found is false and everything else is zero.
type Result struct {
	Found    bool           `json:"found"`
	ID       string         `json:"id,omitempty"`
	URL      string         `json:"url,omitempty"`
	Filename string         `json:"filename,omitempty"`
	Source   SourceName     `json:"source,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func notFound() Result {
	return Result{Found: false}
}
