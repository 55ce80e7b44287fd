package session

import (
	"fmt"
	"strings"
	"time"

	"sales-assist-bff/internal/constant"

	"github.com/google/uuid"
)

// NewTempId mints a client-side identifier used until the analysis service assigns
// a permanent one.
func NewTempId(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("%s%d-%s", constant.TempSessionPrefix, now.UnixMilli(), suffix)
}

func IsTempId(id string) bool {
	return strings.HasPrefix(id, constant.TempSessionPrefix)
}
