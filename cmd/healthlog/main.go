package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/terraincognita07/healthlog/internal/api"
	"github.com/terraincognita07/healthlog/internal/app"
	"github.com/terraincognita07/healthlog/internal/cli"
	"github.com/terraincognita07/healthlog/internal/config"
	"github.com/terraincognita07/healthlog/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	time.Local = cfg.Location

	log, logCloser, err := logger.InitWithConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app init failed: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Warn("close resources failed", "error", err)
		}
	}()

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, application, log)
	case "cleanup":
		return cli.RunCleanupCommand(ctx, os.Stdout, application.Retention)
	case "reset-password":
		return resetPassword(ctx, os.Stdout, application, args)
	default:
		return fmt.Errorf("unknown command %q (want serve, cleanup or reset-password)", command)
	}
}

func resetPassword(ctx context.Context, out io.Writer, application *app.App, args []string) error {
	flags := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	phone := flags.String("phone", "", "phone number of the account")
	prompt := flags.Bool("prompt", false, "read the new password from the terminal instead of generating one")
	if err := flags.Parse(args); err != nil {
		return err
	}
	return cli.RunResetPasswordCommand(ctx, out, application.Auth, *phone, *prompt)
}

func serve(ctx context.Context, application *app.App, log *slog.Logger) error {
	handler, err := api.NewHandler(application.HandlerDependencies())
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	server := newServer(application.Config.CookieSecure)
	api.RegisterRoutes(server, handler)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("healthlog listening",
		"port", application.Config.Port,
		"db_driver", application.Config.DB.Driver,
		"tz", application.Config.Location.String(),
	)
	if err := server.Listen(":" + application.Config.Port); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newServer(cookieSecure bool) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "HealthLog",
		DisableStartupMessage: true,
		BodyLimit:             256 * 1024,
	})

	server.Use(recover.New())
	server.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	server.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	server.Use(compress.New())
	server.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))
	return server
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "healthlog_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		KeyGenerator:   uuid.NewString,
		// The scheduler authenticates with the cleanup token instead.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/cleanup"
		},
	}
}
