package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/softdevglobal/bms-pro-sub000/api"
	"github.com/softdevglobal/bms-pro-sub000/config"
	bookingsapi "github.com/softdevglobal/bms-pro-sub000/internal/api/bookings_service_api"
	"github.com/softdevglobal/bms-pro-sub000/internal/logger"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/bookings"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/facets"
)

const swaggerSpec = "bookingview.swagger.json"

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	grpcAddr   string
}

// Run starts the gRPC and HTTP (REST + swagger) servers and blocks until ctx
// is cancelled or a server fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, bookingSvc bookings.BookingUseCase, facetSvc facets.FacetUseCase) error {
	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return err
	}
	s := newServers(cfg, log, loc, bookingSvc, facetSvc)

	errCh := make(chan error, 2)

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", s.grpcAddr)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", s.grpcAddr, err)
		}
		log.Info("gRPC server listening", zap.String("address", s.grpcAddr))
		go func() { errCh <- s.grpcServer.Serve(lis) }()
	}

	log.Info("HTTP server listening", zap.String("address", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.grpcServer != nil {
			s.grpcServer.GracefulStop()
		}
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, log *zap.Logger, loc *time.Location, bookingSvc bookings.BookingUseCase, facetSvc facets.FacetUseCase) *Servers {
	s := &Servers{
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           NewRouter(cfg.HTTP, log, loc, bookingSvc, facetSvc),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	if cfg.GRPC.Address != "" {
		s.grpcAddr = cfg.GRPC.Address
		s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(logger.UnaryServerInterceptor(log)))
		bookingsapi.RegisterBookingViewServer(s.grpcServer, bookingsapi.NewServer(bookingSvc))
	}
	return s
}

// NewRouter builds the REST API engine.
func NewRouter(cfg config.HTTPConfig, log *zap.Logger, loc *time.Location, bookingSvc bookings.BookingUseCase, facetSvc facets.FacetUseCase) *gin.Engine {
	router := gin.New()
	router.Use(logger.RequestID(), logger.GinMiddleware(log), logger.Recovery(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	owners := router.Group("/api/v1/owners/:ownerId")
	api.NewBookingHandler(bookingSvc, loc).Register(owners)
	api.NewFacetHandler(facetSvc).Register(owners)

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/"+swaggerSpec),
		)))
	}
	return router
}
