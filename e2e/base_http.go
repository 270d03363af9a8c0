package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"dm-lab/auth"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests.
// Without a base URL there is nothing to exercise, so the suite skips.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BaseURL == "" {
		s.T().Skip("E2E_BASE_URL not set, skipping end-to-end suite")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header for a scenario step in logs
func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// TokenFor signs a token locally; server and suite share the signing key.
func (s *BaseHTTPSuite) TokenFor(userID string) string {
	token, err := auth.GenerateToken(userID, time.Hour)
	s.Require().NoError(err)
	return token
}

// Call performs a JSON request as the given user and decodes the
// response into out (when non-nil), logging timing and optionally bodies.
func (s *BaseHTTPSuite) Call(t *testing.T, userID, method, path string, body any, out any) *http.Response {
	var reader io.Reader = http.NoBody
	var rawBody []byte
	if body != nil {
		var err error
		rawBody, err = json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(rawBody)
	}

	req, err := http.NewRequest(method, s.Config.BaseURL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.TokenFor(userID))
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err, "Failed to reach server at "+s.Config.BaseURL)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nREQUEST:")
		fmt.Fprintln(&logBuilder, string(rawBody))
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(payload))
	}
	t.Log(logBuilder.String())

	if out != nil && resp.StatusCode < 300 {
		s.Require().NoError(json.Unmarshal(payload, out))
	}
	return resp
}
