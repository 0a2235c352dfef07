package auth_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

const testSecret = "test-secret-key-that-is-long-enough-to-sign"

// Mock user repository for testing
type mockUserRepository struct {
	credentials map[string]*auth.Credentials
	users       map[int64]*auth.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		credentials: make(map[string]*auth.Credentials),
		users:       make(map[int64]*auth.User),
	}
}

func (m *mockUserRepository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	creds, ok := m.credentials[email]
	if !ok {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return creds, nil
}

func (m *mockUserRepository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return u, nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockUserRepository
		tokenGen *auth.JWTTokenGenerator
	)

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		return string(h)
	}

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = auth.NewJWTTokenGenerator(testSecret, time.Hour, 7*24*time.Hour)
		service = auth.NewService(mockRepo, tokenGen)

		mockRepo.credentials["admin@upenergia.com.br"] = &auth.Credentials{
			UserID:       1,
			PasswordHash: hash("correct-password"),
			IsActive:     true,
		}
		mockRepo.users[1] = &auth.User{
			ID:          1,
			Email:       "admin@upenergia.com.br",
			Name:        "Administrador",
			Role:        "admin",
			Permissions: []string{auth.PermManageUsers, auth.PermManageAgenda},
		}
	})

	Describe("Authenticate", func() {
		It("should issue a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
			Expect(tokens.User.ID).To(Equal(int64(1)))
		})

		It("should embed identity and permissions in the access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())

			claims, err := tokenGen.ValidateToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.Subject).To(Equal("1"))
			Expect(claims.Email).To(Equal("admin@upenergia.com.br"))
			Expect(claims.Role).To(Equal("admin"))
			Expect(claims.Permissions).To(ContainElement(auth.PermManageAgenda))
			Expect(claims.TokenType).To(BeEmpty())
		})

		It("should fail Unauthorized for an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@upenergia.com.br",
				Password: "whatever",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("should fail Unauthorized for a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "wrong-password",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("should fail Forbidden for an inactive user", func() {
			mockRepo.credentials["admin@upenergia.com.br"].IsActive = false

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).To(Equal(internal.ErrUserInactive))
		})

		It("should fail Forbidden for a soft-deleted user", func() {
			deletedAt := time.Now()
			mockRepo.credentials["admin@upenergia.com.br"].DeletedAt = &deletedAt

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).To(Equal(internal.ErrUserInactive))
		})

		It("should fail BadRequest when no password hash is set", func() {
			mockRepo.credentials["admin@upenergia.com.br"].PasswordHash = ""

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).To(Equal(internal.ErrPasswordNotSet))
		})
	})

	Describe("RefreshTokens", func() {
		var refreshToken string

		BeforeEach(func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())
			refreshToken = tokens.RefreshToken
		})

		It("should issue a fresh pair from a refresh token", func() {
			tokens, err := service.RefreshTokens(refreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("should recompute permission claims from the live user", func() {
			mockRepo.users[1].Permissions = []string{auth.PermViewDashboard}

			tokens, err := service.RefreshTokens(refreshToken)
			Expect(err).ToNot(HaveOccurred())

			claims, err := tokenGen.ValidateToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.Permissions).To(Equal([]string{auth.PermViewDashboard}))
		})

		It("should reject an access token used as refresh", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RefreshTokens(tokens.AccessToken)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("should reject refresh for a user no longer resolvable", func() {
			delete(mockRepo.users, 1)

			_, err := service.RefreshTokens(refreshToken)
			Expect(err).To(Equal(internal.ErrUserInactive))
		})

		It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-jwt")
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should reject a refresh token on API calls", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@upenergia.com.br",
				Password: "correct-password",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(tokens.RefreshToken)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("should reject an expired token", func() {
			shortGen := auth.NewJWTTokenGenerator(testSecret, time.Hour, 7*24*time.Hour)
			shortGen.AccessTokenTTL = -time.Minute

			token, err := shortGen.GenerateAccessToken(mockRepo.users[1])
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(internal.ErrTokenExpired))
		})

		It("should reject a token signed with another secret", func() {
			otherGen := auth.NewJWTTokenGenerator("another-secret-also-long-enough-for-hmac", time.Hour, 7*24*time.Hour)
			token, err := otherGen.GenerateAccessToken(mockRepo.users[1])
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("User permissions", func() {
		It("should answer HasPermission and HasAnyPermission", func() {
			u := &auth.User{Permissions: []string{auth.PermManageAgenda}}
			Expect(u.HasPermission(auth.PermManageAgenda)).To(BeTrue())
			Expect(u.HasPermission(auth.PermManageUsers)).To(BeFalse())
			Expect(u.HasAnyPermission([]string{auth.PermManageUsers, auth.PermManageAgenda})).To(BeTrue())
			Expect(u.HasAnyPermission([]string{auth.PermManageUsers})).To(BeFalse())
		})
	})
})
