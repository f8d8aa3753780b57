//go:build integration_test || all_tests

package test

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		email              string
		password           string
		expectedStatusCode int
	}{
		"good creds":     {email: testEmail, password: testPassword, expectedStatusCode: http.StatusOK},
		"email any case": {email: strings.ToUpper(testEmail), password: testPassword, expectedStatusCode: http.StatusOK},
		"bad password":   {email: testEmail, password: "bad-password", expectedStatusCode: http.StatusBadRequest},
		"bad email":      {email: "bad@fitprogress.test", password: testPassword, expectedStatusCode: http.StatusBadRequest},
	}

	for tn, tc := range cases {
		s.Run(tn, func() {
			resp := s.doRequest(ctx, t, "POST", "/a/login", "", map[string]string{
				"email":    tc.email,
				"password": tc.password,
			})
			defer resp.Body.Close()
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			if tc.expectedStatusCode != http.StatusOK {
				respBytes, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
			}
		})
	}
}

func (s *IntegrationTestSuite) TestLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)

	resp := s.doRequest(ctx, t, "GET", "/progress/evaluate/history", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.doRequest(ctx, t, "GET", "/a/logout", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// token is dead now
	resp = s.doRequest(ctx, t, "GET", "/progress/evaluate/history", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
