package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"playbridge/internal/auth"
	"playbridge/internal/config"
	"playbridge/internal/services"
	"playbridge/internal/services/catalog"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCredentials verifies that a credential file is stored and parseable.
func CheckCredentials(path string) Result {
	const name = "Credentials"
	headers, err := auth.NewFileStore(path).Load()
	if err != nil {
		if errors.Is(err, auth.ErrNoCredentials) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (missing: run `playbridge auth`)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d headers)", path, len(headers))}
}

// CheckCatalog verifies the catalog is reachable and accepts the stored credentials.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"
	headers, err := auth.NewFileStore(cfg.Paths.AuthFile).Load()
	if err != nil {
		return Result{Name: name, Detail: "credentials unavailable"}
	}

	client := catalog.NewClient(cfg.Catalog.BaseURL, headers, nil, cfg.CatalogTimeout())
	account, err := client.Account(ctx)
	if err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("signed in as %s", account.Name)}
}

func summarizeCatalogError(err error) string {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return "credentials rejected (re-run `playbridge auth`)"
	case errors.Is(err, services.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "account check timed out (catalog unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "account check timed out (catalog unreachable)"
	}
	return err.Error()
}
