package repository

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type scanner interface {
	Scan(dest ...any) error
}

// Repositories agrupa os repositórios que compartilham a mesma conexão ou transação
type Repositories struct {
	Agencies      AgencyRepository
	Users         UserRepository
	Clients       ClientRepository
	Funnels       FunnelRepository
	Proposals     ProposalRepository
	ProposalItems ProposalItemRepository
	StatusHistory StatusHistoryRepository
	Bookings      BookingRepository
	ActivityLogs  ActivityLogRepository
}

func NewRepositories(db postgres.Queryer) Repositories {
	return Repositories{
		Agencies:      NewAgencyRepository(db),
		Users:         NewUserRepository(db),
		Clients:       NewClientRepository(db),
		Funnels:       NewFunnelRepository(db),
		Proposals:     NewProposalRepository(db),
		ProposalItems: NewProposalItemRepository(db),
		StatusHistory: NewStatusHistoryRepository(db),
		Bookings:      NewBookingRepository(db),
		ActivityLogs:  NewActivityLogRepository(db),
	}
}

// UnitOfWork executa fn com repositórios ligados a uma única transação
type UnitOfWork interface {
	RunInTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

type unitOfWork struct {
	conn postgres.Conn
}

func NewUnitOfWork(conn postgres.Conn) UnitOfWork {
	return &unitOfWork{conn: conn}
}

func (u *unitOfWork) RunInTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	return u.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return fn(NewRepositories(tx))
	})
}
