// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

//go:build integration

package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

// doRequest sends a JSON request to the test API and decodes the response body.
func doRequest(method, path, token string, body any) (int, map[string]any) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, env.api.URL+path, reqBody)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-session-id", token)
	}

	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	var decoded map[string]any
	if len(raw) > 0 {
		Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	}
	return resp.StatusCode, decoded
}

func signUpUser(firstName, lastName, password string) string {
	status, body := doRequest(http.MethodPost, "/auth/signup", "", map[string]any{
		"firstName": firstName,
		"lastName":  lastName,
		"password":  password,
	})
	Expect(status).To(Equal(http.StatusOK))
	token, _ := body["sessionId"].(string)
	Expect(token).To(HaveLen(64))
	return token
}

var _ = Describe("HTTP API", func() {
	BeforeEach(func() {
		cleanupUsers(context.Background(), env.pool)
	})

	Describe("Sign-up and sign-in", func() {
		It("signs a new user up and back in against the real database", func() {
			token := signUpUser("Alan", "Turing", "enigma-machine")

			status, body := doRequest(http.MethodPost, "/auth/signin", "", map[string]any{
				"firstName": "Alan",
				"lastName":  "Turing",
				"password":  "enigma-machine",
			})
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["sessionId"]).NotTo(Equal(token))

			user, ok := body["user"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(user["loginsCounter"]).To(BeNumerically("==", 2))
		})

		It("rejects wrong credentials without leaking which field failed", func() {
			signUpUser("Alan", "Turing", "enigma-machine")

			status1, body1 := doRequest(http.MethodPost, "/auth/signin", "", map[string]any{
				"firstName": "Alan",
				"lastName":  "Turing",
				"password":  "wrong-password",
			})
			status2, body2 := doRequest(http.MethodPost, "/auth/signin", "", map[string]any{
				"firstName": "No",
				"lastName":  "Body",
				"password":  "enigma-machine",
			})

			Expect(status1).To(Equal(http.StatusUnauthorized))
			Expect(status2).To(Equal(http.StatusUnauthorized))
			Expect(body1["error"]).To(Equal(body2["error"]))
		})

		It("rejects a duplicate sign-up with 409", func() {
			signUpUser("Alan", "Turing", "enigma-machine")

			status, _ := doRequest(http.MethodPost, "/auth/signup", "", map[string]any{
				"firstName": "Alan",
				"lastName":  "Turing",
				"password":  "other-password",
			})
			Expect(status).To(Equal(http.StatusConflict))
		})
	})

	Describe("Session guard", func() {
		It("guards user endpoints against missing and stale tokens", func() {
			status, _ := doRequest(http.MethodGet, "/users", "", nil)
			Expect(status).To(Equal(http.StatusUnauthorized))

			status, _ = doRequest(http.MethodGet, "/users", "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", nil)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})

		It("returns the fixed message after termination", func() {
			token := signUpUser("Alan", "Turing", "enigma-machine")

			status, body := doRequest(http.MethodGet, "/sessions/me", token, nil)
			Expect(status).To(Equal(http.StatusOK))
			sessionID, _ := body["id"].(string)
			Expect(sessionID).To(Equal(token))

			status, _ = doRequest(http.MethodPatch, "/sessions/"+token+"/terminate", token, nil)
			Expect(status).To(Equal(http.StatusOK))

			status, body = doRequest(http.MethodGet, "/sessions/me", token, nil)
			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body["error"]).To(Equal("Session terminated."))
		})
	})

	Describe("User management", func() {
		It("creates, lists, updates and deletes users end to end", func() {
			token := signUpUser("Admin", "Root", "bootstrap-pass")

			status, created := doRequest(http.MethodPost, "/users", token, map[string]any{
				"firstName": "Edsger",
				"lastName":  "Dijkstra",
				"password":  "shortest-path",
			})
			Expect(status).To(Equal(http.StatusCreated))
			id, _ := created["id"].(string)
			Expect(id).NotTo(BeEmpty())

			status, page := doRequest(http.MethodGet, "/users?page=1&limit=50", token, nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(page["total"]).To(BeNumerically("==", 2))

			status, updated := doRequest(http.MethodPatch, "/users/"+id, token, map[string]any{
				"lastName": "Wybe",
			})
			Expect(status).To(Equal(http.StatusOK))
			Expect(updated["lastName"]).To(Equal("Wybe"))

			status, _ = doRequest(http.MethodDelete, "/users/"+id, token, nil)
			Expect(status).To(Equal(http.StatusNoContent))

			status, _ = doRequest(http.MethodDelete, "/users/"+id, token, nil)
			Expect(status).To(Equal(http.StatusNotFound))
		})

		It("blocks self-deactivation and self-deletion", func() {
			token := signUpUser("Admin", "Root", "bootstrap-pass")

			status, me := doRequest(http.MethodGet, "/sessions/me", token, nil)
			Expect(status).To(Equal(http.StatusOK))
			selfID, _ := me["userId"].(string)
			Expect(selfID).NotTo(BeEmpty())

			status, _ = doRequest(http.MethodPatch, "/users/"+selfID, token, map[string]any{
				"status": "inactive",
			})
			Expect(status).To(Equal(http.StatusForbidden))

			status, _ = doRequest(http.MethodDelete, "/users/"+selfID, token, nil)
			Expect(status).To(Equal(http.StatusForbidden))
		})

		It("keeps an inactive user out until reactivated", func() {
			adminToken := signUpUser("Admin", "Root", "bootstrap-pass")
			signUpUser("Barbara", "Liskov", "substitution")

			status, page := doRequest(http.MethodGet, "/users?page=1&limit=50", adminToken, nil)
			Expect(status).To(Equal(http.StatusOK))
			var barbaraID string
			for _, item := range page["items"].([]any) {
				user := item.(map[string]any)
				if user["firstName"] == "Barbara" {
					barbaraID, _ = user["id"].(string)
				}
			}
			Expect(barbaraID).NotTo(BeEmpty())

			status, _ = doRequest(http.MethodPatch, "/users/"+barbaraID, adminToken, map[string]any{
				"status": "inactive",
			})
			Expect(status).To(Equal(http.StatusOK))

			status, _ = doRequest(http.MethodPost, "/auth/signin", "", map[string]any{
				"firstName": "Barbara",
				"lastName":  "Liskov",
				"password":  "substitution",
			})
			Expect(status).To(Equal(http.StatusForbidden))

			status, _ = doRequest(http.MethodPatch, "/users/"+barbaraID, adminToken, map[string]any{
				"status": "active",
			})
			Expect(status).To(Equal(http.StatusOK))

			status, _ = doRequest(http.MethodPost, "/auth/signin", "", map[string]any{
				"firstName": "Barbara",
				"lastName":  "Liskov",
				"password":  "substitution",
			})
			Expect(status).To(Equal(http.StatusOK))
		})
	})
})
