package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/portal/internal/auth/http"
	authRepository "github.com/allisson/portal/internal/auth/repository"
	authService "github.com/allisson/portal/internal/auth/service"
	authUsecase "github.com/allisson/portal/internal/auth/usecase"
)

// authComponents groups the auth-related dependencies of the container.
type authComponents struct {
	apiKeyRepo     authUsecase.APIKeyRepository
	sessionStore   authService.SessionStore
	tokenService   authService.TokenService
	apiKeyService  authService.APIKeyService
	passwordSvc    authService.PasswordService
	sessionService authService.SessionService
	authUseCase    authUsecase.AuthUseCase
	apiKeyUseCase  authUsecase.APIKeyUseCase
	authHandler    *authHTTP.AuthHandler
	apiKeyHandler  *authHTTP.APIKeyHandler
	sources        []authHTTP.CredentialSource

	apiKeyRepoInit     sync.Once
	sessionStoreInit   sync.Once
	tokenServiceInit   sync.Once
	apiKeyServiceInit  sync.Once
	passwordSvcInit    sync.Once
	sessionServiceInit sync.Once
	authUseCaseInit    sync.Once
	apiKeyUseCaseInit  sync.Once
	authHandlerInit    sync.Once
	apiKeyHandlerInit  sync.Once
	sourcesInit        sync.Once
}

// APIKeyRepository returns the API key repository instance.
func (c *Container) APIKeyRepository() (authUsecase.APIKeyRepository, error) {
	c.auth.apiKeyRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["apiKeyRepo"] = fmt.Errorf("failed to get database for api key repository: %w", err)
			return
		}

		// Select the appropriate repository based on the database driver
		switch c.config.DBDriver {
		case "mysql":
			c.auth.apiKeyRepo = authRepository.NewMySQLAPIKeyRepository(db)
		case "postgres":
			c.auth.apiKeyRepo = authRepository.NewPostgreSQLAPIKeyRepository(db)
		default:
			c.initErrors["apiKeyRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["apiKeyRepo"]; exists {
		return nil, err
	}
	return c.auth.apiKeyRepo, nil
}

// SessionStore returns the redis-backed session store.
func (c *Container) SessionStore() (authService.SessionStore, error) {
	c.auth.sessionStoreInit.Do(func() {
		client, err := c.Redis()
		if err != nil {
			c.initErrors["sessionStore"] = fmt.Errorf("failed to get redis for session store: %w", err)
			return
		}
		c.auth.sessionStore = authRepository.NewRedisSessionRepository(client)
	})
	if err, exists := c.initErrors["sessionStore"]; exists {
		return nil, err
	}
	return c.auth.sessionStore, nil
}

// TokenService returns the JWT token service.
func (c *Container) TokenService() authService.TokenService {
	c.auth.tokenServiceInit.Do(func() {
		c.auth.tokenService = authService.NewTokenService(c.config.JWTSigningKey)
	})
	return c.auth.tokenService
}

// APIKeyService returns the API key generation service.
func (c *Container) APIKeyService() authService.APIKeyService {
	c.auth.apiKeyServiceInit.Do(func() {
		c.auth.apiKeyService = authService.NewAPIKeyService()
	})
	return c.auth.apiKeyService
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.auth.passwordSvcInit.Do(func() {
		c.auth.passwordSvc = authService.NewPasswordService()
	})
	return c.auth.passwordSvc
}

// SessionService returns the session service.
func (c *Container) SessionService() (authService.SessionService, error) {
	c.auth.sessionServiceInit.Do(func() {
		store, err := c.SessionStore()
		if err != nil {
			c.initErrors["sessionService"] = fmt.Errorf("failed to get session store for session service: %w", err)
			return
		}
		c.auth.sessionService = authService.NewSessionService(store, c.config.SessionTTL)
	})
	if err, exists := c.initErrors["sessionService"]; exists {
		return nil, err
	}
	return c.auth.sessionService, nil
}

// AuthUseCase returns the authentication use case instance.
func (c *Container) AuthUseCase() (authUsecase.AuthUseCase, error) {
	c.auth.authUseCaseInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["authUseCase"] = fmt.Errorf("failed to get user repository for auth use case: %w", err)
			return
		}

		sessionService, err := c.SessionService()
		if err != nil {
			c.initErrors["authUseCase"] = fmt.Errorf("failed to get session service for auth use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["authUseCase"] = fmt.Errorf("failed to get business metrics for auth use case: %w", err)
			return
		}

		useCase := authUsecase.NewAuthUseCase(
			c.config,
			userRepo,
			c.TokenService(),
			c.PasswordService(),
			sessionService,
		)
		c.auth.authUseCase = authUsecase.NewAuthUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["authUseCase"]; exists {
		return nil, err
	}
	return c.auth.authUseCase, nil
}

// APIKeyUseCase returns the API key use case instance.
func (c *Container) APIKeyUseCase() (authUsecase.APIKeyUseCase, error) {
	c.auth.apiKeyUseCaseInit.Do(func() {
		apiKeyRepo, err := c.APIKeyRepository()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = fmt.Errorf("failed to get api key repository for api key use case: %w", err)
			return
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = fmt.Errorf("failed to get user repository for api key use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = fmt.Errorf("failed to get business metrics for api key use case: %w", err)
			return
		}

		useCase := authUsecase.NewAPIKeyUseCase(apiKeyRepo, userRepo, c.APIKeyService(), c.Logger())
		c.auth.apiKeyUseCase = authUsecase.NewAPIKeyUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, err
	}
	return c.auth.apiKeyUseCase, nil
}

// AuthHandler returns the authentication HTTP handler instance.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	c.auth.authHandlerInit.Do(func() {
		useCase, err := c.AuthUseCase()
		if err != nil {
			c.initErrors["authHandler"] = fmt.Errorf("failed to get auth use case for auth handler: %w", err)
			return
		}
		c.auth.authHandler = authHTTP.NewAuthHandler(useCase, c.config, c.Logger())
	})
	if err, exists := c.initErrors["authHandler"]; exists {
		return nil, err
	}
	return c.auth.authHandler, nil
}

// APIKeyHandler returns the API key HTTP handler instance.
func (c *Container) APIKeyHandler() (*authHTTP.APIKeyHandler, error) {
	c.auth.apiKeyHandlerInit.Do(func() {
		useCase, err := c.APIKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyHandler"] = fmt.Errorf("failed to get api key use case for api key handler: %w", err)
			return
		}
		c.auth.apiKeyHandler = authHTTP.NewAPIKeyHandler(useCase, c.Logger())
	})
	if err, exists := c.initErrors["apiKeyHandler"]; exists {
		return nil, err
	}
	return c.auth.apiKeyHandler, nil
}

// CredentialSources returns the ordered credential sources for the resolver
// middleware.
func (c *Container) CredentialSources() ([]authHTTP.CredentialSource, error) {
	c.auth.sourcesInit.Do(func() {
		authUseCase, err := c.AuthUseCase()
		if err != nil {
			c.initErrors["credentialSources"] = fmt.Errorf("failed to get auth use case for credential sources: %w", err)
			return
		}

		apiKeyUseCase, err := c.APIKeyUseCase()
		if err != nil {
			c.initErrors["credentialSources"] = fmt.Errorf("failed to get api key use case for credential sources: %w", err)
			return
		}

		c.auth.sources = authHTTP.DefaultCredentialSources(c.config, authUseCase, apiKeyUseCase)
	})
	if err, exists := c.initErrors["credentialSources"]; exists {
		return nil, err
	}
	return c.auth.sources, nil
}
