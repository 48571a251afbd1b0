package app

import (
	"context"
	"fmt"
	"log"
	"syscall"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/andy/invoiceflow/internal/config"
	"github.com/andy/invoiceflow/internal/crypto"
	"github.com/andy/invoiceflow/internal/db"
	"github.com/andy/invoiceflow/internal/export"
	"github.com/andy/invoiceflow/internal/repository"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/andy/invoiceflow/internal/webhook"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB

	// Repositories
	CustomerRepo repository.CustomerRepository
	InvoiceRepo  repository.InvoiceRepository
	DraftRepo    repository.DraftRepository

	// Integrations
	Notifier *webhook.Notifier
	Exporter *export.PDFExporter
	// AIEnabled is false when no API key is configured
	AIEnabled bool
	completer ai.Completer

	// Services
	CatalogService     service.CatalogService
	DraftService       service.DraftService
	PaymentLinkService service.PaymentLinkService
	ReportService      service.ReportService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations and seeding the catalog
// 5. Creating repositories and integrations
// 6. Creating services
func New(ctx context.Context) (*App, error) {
	// Load config from default path
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	// Get keyring for secure password storage
	keyring := crypto.NewKeyring()

	// Try to get existing encryption key
	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		// Store the key in keyring
		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	return open(ctx, cfg, password)
}

// NewWithPassword builds an App without consulting the keyring
func NewWithPassword(ctx context.Context, cfg *config.Config, password string) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}
	return open(ctx, cfg, password)
}

func open(ctx context.Context, cfg *config.Config, password string) (*App, error) {
	// Open the database with encryption
	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create repositories
	customerRepo := repository.NewCustomerRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)
	draftRepo := repository.NewKVDraftRepo(database)

	// Integrations
	notifier := webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout)
	exporter := export.NewPDFExporter(cfg.Invoice.OutputDir, branding(cfg.Company))

	var (
		completer  ai.Completer
		extractor  service.Extractor
		summarizer service.Summarizer
	)
	gemini, err := ai.NewGeminiCompleter(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	if err != nil {
		log.Printf("AI features disabled: %v", err)
	} else {
		completer = gemini
		extractor = ai.NewExtractor(gemini)
		summarizer = ai.NewSummarizer(gemini)
	}

	// Create services with their dependencies
	catalogService := service.NewCatalogService(invoiceRepo, customerRepo, cfg.Invoice.NumberPrefix)
	draftService := service.NewDraftService(draftRepo, catalogService, extractor, notifier, cfg.Invoice.Currency)
	paymentLinkService := service.NewPaymentLinkService(notifier, cfg.Payment.LinkBaseURL, cfg.Invoice.Currency)
	reportService := service.NewReportService(invoiceRepo, summarizer)

	if err := catalogService.EnsureSeeded(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to seed invoice catalog: %w", err)
	}

	return &App{
		Config:             cfg,
		DB:                 database,
		CustomerRepo:       customerRepo,
		InvoiceRepo:        invoiceRepo,
		DraftRepo:          draftRepo,
		Notifier:           notifier,
		Exporter:           exporter,
		AIEnabled:          completer != nil,
		completer:          completer,
		CatalogService:     catalogService,
		DraftService:       draftService,
		PaymentLinkService: paymentLinkService,
		ReportService:      reportService,
	}, nil
}

// NewChat starts an assistant conversation. Without an API key every
// message fails with ai.ErrNoAPIKey.
func (a *App) NewChat() *ai.ChatSession {
	return ai.NewChatSession(a.completer, a.Config.AI.ChatModel)
}

func branding(c config.CompanyConfig) export.Branding {
	return export.Branding{
		Name:         c.Name,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		Website:      c.Website,
		PrimaryColor: c.PrimaryColor,
	}
}

// ExporterFor returns a PDF exporter writing to dir with the configured branding
func (a *App) ExporterFor(dir string) *export.PDFExporter {
	if dir == "" {
		return a.Exporter
	}
	return export.NewPDFExporter(dir, branding(a.Config.Company))
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices and drafts will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	// Confirm password
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after confirmation
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	// Check if passwords match
	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
