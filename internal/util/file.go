package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/formadoc/FormaSign/internal/constant"
)

// SignatureObjectPrefix builds the standardized object-name prefix for a
// signature lookup: {type}_{documentType}_{trainingId}_{userId}. The userId
// segment is omitted for global types and for empty user ids, so the prefix
// stays usable for storage pattern searches.
func SignatureObjectPrefix(st constant.SignatureType, dt constant.DocumentType, trainingId string, userId string) string {
	parts := []string{string(st), string(dt)}
	if trainingId != "" {
		parts = append(parts, trainingId)
	}
	if userId != "" && !st.IsGlobal() {
		parts = append(parts, userId)
	}

	return strings.Join(parts, "_")
}

// Example output: "participant_convention_t1_u1_1718000000000_V1StGXR8.png"
func NewSignatureObjectName(st constant.SignatureType, dt constant.DocumentType, trainingId string, userId string) (string, error) {
	suffix, err := GenerateNChar(8)
	if err != nil {
		return "", fmt.Errorf("failed to generate object name suffix: %w", err)
	}

	prefix := SignatureObjectPrefix(st, dt, trainingId, userId)
	return fmt.Sprintf("%s_%d_%s.png", prefix, time.Now().UnixMilli(), suffix), nil
}
