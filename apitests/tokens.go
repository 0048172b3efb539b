package apitests

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// describeToken summarizes the claims of a bearer token for debug output. The token is not
// verified; tokens that are not JWTs are described as opaque.
func describeToken(token string) string {
	if token == "" {
		return "(none)"
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Sprintf("opaque token (%d chars)", len(token))
	}
	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, claims[k]))
	}
	return "JWT {" + strings.Join(parts, ", ") + "}"
}
