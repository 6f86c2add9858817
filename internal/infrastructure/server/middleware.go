package server

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeBasicCredentials decodes the value of a Basic authorization
// header into its login and password parts.
func decodeBasicCredentials(value string) (string, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", fmt.Errorf("decode basic credentials: %w", err)
	}

	login, password, found := strings.Cut(string(decoded), ":")
	if !found || login == "" {
		return "", "", fmt.Errorf("malformed basic credentials")
	}

	return login, password, nil
}
