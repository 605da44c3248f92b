package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/infrastructure/repository/mocks"
	"github.com/vfg2006/crm-api/internal/config"
	"github.com/vfg2006/crm-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{SecretKey: "test-secret"}
}

func TestService_LoginUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	storedUser := &domain.User{
		ID:           "u1",
		Name:         "Maria",
		Email:        "maria@acme.com",
		PasswordHash: string(hash),
	}

	t.Run("Login com sucesso retorna token válido", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		user := *storedUser
		mockRepo.EXPECT().GetProfileByEmail("maria@acme.com").Return(&user, nil)

		token, logged, err := service.LoginUser("maria@acme.com", "correct-horse")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", logged.ID)
		assert.Empty(t, logged.PasswordHash)

		claims, err := service.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "maria@acme.com", claims.UserEmail)
	})

	t.Run("Email é normalizado antes da consulta", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		user := *storedUser
		mockRepo.EXPECT().GetProfileByEmail("maria@acme.com").Return(&user, nil)

		_, _, err := service.LoginUser("  Maria@Acme.com ", "correct-horse")

		assert.NoError(t, err)
	})

	t.Run("Senha incorreta retorna erro de credenciais", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		user := *storedUser
		mockRepo.EXPECT().GetProfileByEmail("maria@acme.com").Return(&user, nil)

		_, _, err := service.LoginUser("maria@acme.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Usuário inexistente retorna erro específico", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		mockRepo.EXPECT().GetProfileByEmail("ghost@acme.com").Return(nil, nil)

		_, _, err := service.LoginUser("ghost@acme.com", "whatever")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Campos vazios são rejeitados sem consultar o banco", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		_, _, err := service.LoginUser("", "")

		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_RegisterUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Registro com sucesso grava hash e limpa a senha na resposta", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		mockRepo.EXPECT().GetProfileByEmail("maria@acme.com").Return(nil, nil)
		mockRepo.EXPECT().
			CreateProfile(gomock.Any()).
			DoAndReturn(func(user *domain.User) (*domain.User, error) {
				assert.NotEqual(t, "secret-password", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")))
				user.ID = "u2"
				return user, nil
			})

		user, err := service.RegisterUser("Maria", "Maria@Acme.com", "secret-password")

		assert.NoError(t, err)
		assert.Equal(t, "u2", user.ID)
		assert.Equal(t, "maria@acme.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("Email já cadastrado é rejeitado", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		mockRepo.EXPECT().GetProfileByEmail("maria@acme.com").Return(&domain.User{ID: "u1"}, nil)

		_, err := service.RegisterUser("Maria", "maria@acme.com", "secret-password")

		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("Senha curta é rejeitada", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		mockRepo.EXPECT().GetProfileByEmail("maria@acme.com").Return(nil, nil)

		_, err := service.RegisterUser("Maria", "maria@acme.com", "123")

		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	storedUser := &domain.User{ID: "u1", Email: "maria@acme.com", PasswordHash: string(hash)}

	t.Run("Troca com sucesso persiste novo hash", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		user := *storedUser
		mockRepo.EXPECT().GetProfileByID("u1").Return(&user, nil)
		mockRepo.EXPECT().
			UpdatePassword("u1", gomock.Any()).
			DoAndReturn(func(id, newHash string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password")))
				return nil
			})

		err := service.ChangePassword("u1", "old-password", "new-password")

		assert.NoError(t, err)
	})

	t.Run("Senha atual incorreta é rejeitada", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		user := *storedUser
		mockRepo.EXPECT().GetProfileByID("u1").Return(&user, nil)

		err := service.ChangePassword("u1", "wrong", "new-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Nova senha igual à atual é rejeitada", func(t *testing.T) {
		mockRepo := mocks.NewMockProfileRepository(ctrl)
		service := &Service{profileRepo: mockRepo, cfg: testConfig()}

		err := service.ChangePassword("u1", "same", "same")

		assert.ErrorIs(t, err, ErrSamePassword)
	})
}
