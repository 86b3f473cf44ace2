package main

import (
	"go.uber.org/fx"

	"github.com/jakub-pelec/teacherspace-cf/internal/account"
	"github.com/jakub-pelec/teacherspace-cf/internal/config"
	"github.com/jakub-pelec/teacherspace-cf/internal/errreport"
	"github.com/jakub-pelec/teacherspace-cf/internal/identity"
	"github.com/jakub-pelec/teacherspace-cf/internal/observability"
	"github.com/jakub-pelec/teacherspace-cf/internal/payment"
	"github.com/jakub-pelec/teacherspace-cf/internal/server"
	"github.com/jakub-pelec/teacherspace-cf/internal/store"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		store.Module,
		identity.Module,
		errreport.Module,
		account.Module,
		payment.Module,
		server.Module,
	)
	app.Run()
}
