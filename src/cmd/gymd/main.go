package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/jackyeh168/gym_crm/src/internal/application/admin"
	appauth "github.com/jackyeh168/gym_crm/src/internal/application/auth"
	appbilling "github.com/jackyeh168/gym_crm/src/internal/application/billing"
	"github.com/jackyeh168/gym_crm/src/internal/application/checkin"
	"github.com/jackyeh168/gym_crm/src/internal/application/logs"
	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	"github.com/jackyeh168/gym_crm/src/internal/application/membership"
	"github.com/jackyeh168/gym_crm/src/internal/delivery"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/middleware"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/router/handler"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/scheduler"
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/auth"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/lock"
	logger "github.com/jackyeh168/gym_crm/src/internal/infrastructure/log"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	auditrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/audit"
	billingrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/billing"
	memberrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/member"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/schema"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/qrcode"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/websocket"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			schema.Register,
			bootstrapAdmin,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logger.New,
		persistence.New,
		persistence.NewGORMTransactionManager,
		lock.NewLocker,
		websocket.NewHub,
		websocket.NewEventPublisher,
		func() shared.Clock { return shared.SystemClock{} },
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			memberrepo.NewMemberRepository,
			billingrepo.NewTransactionRepository,
			auditrepo.NewEntryRepository,
			auditrepo.NewCheckInLogRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			qrcode.NewQRCodeService,
			func() *billing.ReferenceGenerator { return billing.NewReferenceGenerator(rand.IntN) },
			membership.NewRecordManager,
		),
	)
}

// coreDeps 核心 use case 共用的依賴
type coreDeps struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	MemberRepo  member.MemberRepository
	AuditRepo   audit.EntryRepository
	CheckInRepo audit.CheckInLogRepository
	TxRepo      billing.TransactionRepository
	Records     membership.RecordManager
	QRCode      service.QRCodeService
	TxManager   shared.TransactionManager
	Locker      shared.Locker
	Publisher   shared.EventPublisher
	Clock       shared.Clock
	References  *billing.ReferenceGenerator
}

func newProcessScanUseCase(d coreDeps) checkin.ProcessScanUseCase {
	return checkin.NewProcessScanUseCase(checkin.ProcessScanDeps{
		MemberRepo:  d.MemberRepo,
		AuditRepo:   d.AuditRepo,
		CheckInRepo: d.CheckInRepo,
		Records:     d.Records,
		QRCode:      d.QRCode,
		TxManager:   d.TxManager,
		Locker:      d.Locker,
		Publisher:   d.Publisher,
		Clock:       d.Clock,
		Logger:      d.Logger,
	})
}

func newSetActivationUseCase(d coreDeps) appbilling.SetActivationUseCase {
	return appbilling.NewSetActivationUseCase(appbilling.SetActivationDeps{
		MemberRepo:        d.MemberRepo,
		TransactionRepo:   d.TxRepo,
		AuditRepo:         d.AuditRepo,
		Records:           d.Records,
		References:        d.References,
		TxManager:         d.TxManager,
		Locker:            d.Locker,
		Publisher:         d.Publisher,
		Clock:             d.Clock,
		Logger:            d.Logger,
		ReferenceAttempts: d.Config.Billing.ReferenceAttempts,
		Currency:          d.Config.Billing.Currency,
	})
}

func newSweepUseCase(d coreDeps) membership.SweepExpiredMembershipsUseCase {
	return membership.NewSweepExpiredMembershipsUseCase(membership.SweepDeps{
		MemberRepo: d.MemberRepo,
		AuditRepo:  d.AuditRepo,
		Records:    d.Records,
		TxManager:  d.TxManager,
		Locker:     d.Locker,
		Publisher:  d.Publisher,
		Clock:      d.Clock,
		Logger:     d.Logger,
		BatchSize:  d.Config.Sweep.BatchSize,
	})
}

func newLandingStatsUseCase(repo member.MemberRepository, clock shared.Clock, cfg *config.Config) appmember.LandingStatsUseCase {
	return appmember.NewLandingStatsUseCase(repo, clock, cfg.Location())
}

func newQueryAuditLogsUseCase(repo member.MemberRepository, auditRepo audit.EntryRepository, clock shared.Clock, cfg *config.Config) logs.QueryAuditLogsUseCase {
	return logs.NewQueryAuditLogsUseCase(repo, auditRepo, clock, cfg.Location())
}

func newQueryCheckInLogsUseCase(repo member.MemberRepository, checkInRepo audit.CheckInLogRepository, clock shared.Clock, cfg *config.Config) logs.QueryCheckInLogsUseCase {
	return logs.NewQueryCheckInLogsUseCase(repo, checkInRepo, clock, cfg.Location())
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			newProcessScanUseCase,
			newSetActivationUseCase,
			newSweepUseCase,
			appbilling.NewListMemberTransactionsUseCase,
			appmember.NewRegisterMemberUseCase,
			appmember.NewEditMemberUseCase,
			appmember.NewDeleteMemberUseCase,
			appmember.NewListMembersUseCase,
			appmember.NewGetQRCodeUseCase,
			newLandingStatsUseCase,
			appauth.NewLoginUseCase,
			admin.NewCreateStaffUseCase,
			admin.NewDeleteStaffUseCase,
			admin.NewEnsureAdminUseCase,
			newQueryAuditLogsUseCase,
			newQueryCheckInLogsUseCase,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
		),
	)
}

// staffHandlerParams fx 注入 StaffHandler 的 use case
type staffHandlerParams struct {
	fx.In

	Config       *config.Config
	Scan         checkin.ProcessScanUseCase
	Activation   appbilling.SetActivationUseCase
	Transactions appbilling.ListMemberTransactionsUseCase
	List         appmember.ListMembersUseCase
	Edit         appmember.EditMemberUseCase
	Remove       appmember.DeleteMemberUseCase
	QRCode       appmember.GetQRCodeUseCase
	CheckIns     logs.QueryCheckInLogsUseCase
}

func newStaffHandler(p staffHandlerParams) *handler.StaffHandler {
	return handler.NewStaffHandler(handler.StaffHandlerParams{
		Scan:         p.Scan,
		Activation:   p.Activation,
		Transactions: p.Transactions,
		List:         p.List,
		Edit:         p.Edit,
		Remove:       p.Remove,
		QRCode:       p.QRCode,
		CheckIns:     p.CheckIns,
	}, p.Config)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewMemberHandler,
			newStaffHandler,
			handler.NewAdminHandler,
			handler.NewStatsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				scheduler.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// bootstrapAdmin 在遷移之後執行（hook 依註冊順序啟動）
func bootstrapAdmin(lc fx.Lifecycle, cfg *config.Config, uc admin.EnsureAdminUseCase) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := uc.Execute(ctx, admin.BootstrapAdminCommand{
				Username: cfg.Auth.BootstrapAdmin.Username,
				Password: cfg.Auth.BootstrapAdmin.Password,
			})
			return err
		},
	})
}

func startServer(params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(context.Background()); err != nil {
						slog.Error("Failed to start server", slog.Any("error", err))
						os.Exit(1)
					}
				}()
			}
			return nil
		},
	})
}
