package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"bookstore/internal/httpx"
	"bookstore/internal/user"
)

const (
	githubAPIURL      = "https://api.github.com"
	githubStateCookie = "bookstore_oauth_state"
	githubUserPrefix  = "github:"
)

// GitHubHandler signs users in with their GitHub account. The account is
// mapped to the local user "github:<login>", created on first login.
type GitHubHandler struct {
	config      *oauth2.Config
	apiURL      string
	service     *Service
	userService *user.Service
	logger      *zap.Logger
}

func NewGitHubHandler(clientID, clientSecret, redirectURL string, service *Service, userService *user.Service, logger *zap.Logger) *GitHubHandler {
	return &GitHubHandler{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL:      githubAPIURL,
		service:     service,
		userService: userService,
		logger:      logger,
	}
}

// Login handles GET /auth/github/login
// @Summary Start GitHub login
// @Tags auth
// @Success 307 "Redirect to GitHub"
// @Router /auth/github/login [get]
func (h *GitHubHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     githubStateCookie,
		Value:    state,
		Path:     "/auth/github",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /auth/github/callback
// @Summary Finish GitHub login
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 200 {object} Token
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/github/callback [get]
func (h *GitHubHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(githubStateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATE", "OAuth state mismatch", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: githubStateCookie, Path: "/auth/github", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Code missing", nil)
		return
	}

	oauthToken, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("github code exchange failed", zap.Error(err))
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "GitHub login failed", nil)
		return
	}

	login, email, err := h.fetchUser(r.Context(), oauthToken)
	if err != nil {
		h.logger.Error("github user lookup failed", zap.Error(err))
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "GitHub login failed", nil)
		return
	}

	u, err := h.userService.FindOrCreate(r.Context(), githubUserPrefix+login, email)
	if err != nil {
		h.logger.Error("github user provisioning failed", zap.String("github.login", login), zap.Error(err))
		httpx.InternalError(w, r)
		return
	}

	token, err := h.service.IssueToken(u)
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, token)
}

func (h *GitHubHandler) fetchUser(ctx context.Context, token *oauth2.Token) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.apiURL+"/user", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := h.config.Client(ctx, token).Do(req)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github /user: status %d", resp.StatusCode)
	}

	var ghUser struct {
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return "", "", fmt.Errorf("decode github user: %w", err)
	}
	if strings.TrimSpace(ghUser.Login) == "" {
		return "", "", fmt.Errorf("github /user: empty login")
	}
	return ghUser.Login, ghUser.Email, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
