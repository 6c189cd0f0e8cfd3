package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paywallet/walletgo/internal/config"
	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/service/ledgerservice"
	"github.com/paywallet/walletgo/pkg/clients"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1

	// Rows younger than this are usually still inside the synchronous
	// AddFunds settlement and are not worth asking the provider about.
	minAge = time.Second * 30
)

var processingTokens sync.Map

type Response struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// Settler applies a provider verdict to an on-ramp transaction.
type Settler interface {
	SettleOnRamp(ctx context.Context, token string, success bool) error
}

// Service reconciles on-ramp transactions stuck in Processing by polling the
// payment provider's status API. It is the asynchronous counterpart of the
// webhook: either path may settle first, settlement itself is idempotent.
type Service struct {
	url            string
	onRampRepo     ledgerservice.OnRampRepo
	settler        Settler
	client         clients.HTTPClientI
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
}

func New(cfg *config.Config, onRampRepo ledgerservice.OnRampRepo, settler Settler, client clients.HTTPClientI) *Service {
	return &Service{
		url:            cfg.ProviderAddress,
		onRampRepo:     onRampRepo,
		settler:        settler,
		client:         client,
		limit:          1000,
		workerPool:     NewWorkerPool(10),
		updateInterval: time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Settlement service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping settlement service")
			return
		case <-ticker.C:
			s.processTransactions(ctx)
		}
	}
}

func (s *Service) processTransactions(ctx context.Context) {
	transactions, err := s.onRampRepo.FindProcessing(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch onramp transactions for settlement", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, transaction := range transactions {
		transaction := transaction

		if time.Since(transaction.StartTime) < minAge {
			continue
		}
		if _, loaded := processingTokens.LoadOrStore(transaction.Token, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingTokens.Delete(transaction.Token)
				return s.handleTransaction(ctx, transaction)
			})
			if err != nil {
				processingTokens.Delete(transaction.Token)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error settling onramp transactions", zap.Error(err))
	}
}

func (s *Service) handleTransaction(ctx context.Context, transaction domain.OnRampTransaction) error {
	url := s.url + "/api/payments/" + transaction.Token
	var err error
	var statusCode int
	var respBody []byte
	var respHeaders http.Header

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, respBody, respHeaders, err = s.client.Get(url, nil)
			if err != nil {
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return fmt.Errorf("failed to check onramp %s after %d retries: %w", transaction.Token, maxRetries, err)
			}

			switch statusCode {
			case http.StatusTooManyRequests:
				return s.handleRateLimit(transaction, respHeaders, attempt)
			case http.StatusNoContent, http.StatusNotFound:
				zap.L().Warn("Onramp transaction unknown to provider, retrying",
					zap.String("token", transaction.Token), zap.Int("attempt", attempt))
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return fmt.Errorf("onramp %s unknown to provider after %d retries", transaction.Token, maxRetries)

			case http.StatusOK:
				return s.processVerdict(ctx, transaction, respBody)

			default:
				zap.L().Error("Unexpected status code from provider",
					zap.Int("status", statusCode), zap.String("token", transaction.Token))
				return errors.New("unexpected status code")
			}
		}
	}
	return nil
}

func (s *Service) processVerdict(ctx context.Context, transaction domain.OnRampTransaction, respBody []byte) error {
	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return fmt.Errorf("failed to parse provider response: %w", err)
	}

	if response.Token != transaction.Token {
		return fmt.Errorf("token mismatch: expected %s, got %s", transaction.Token, response.Token)
	}

	switch response.Status {
	case "SUCCESS":
		if err := s.settler.SettleOnRamp(ctx, transaction.Token, true); err != nil {
			return fmt.Errorf("failed to settle onramp %s: %w", transaction.Token, err)
		}
		zap.L().Info("Onramp settled successfully", zap.String("token", transaction.Token))
	case "FAILURE":
		if err := s.settler.SettleOnRamp(ctx, transaction.Token, false); err != nil {
			return fmt.Errorf("failed to fail onramp %s: %w", transaction.Token, err)
		}
		zap.L().Info("Onramp marked failed", zap.String("token", transaction.Token))
	case "PENDING":
		zap.L().Info("Onramp still pending at provider", zap.String("token", transaction.Token))
	default:
		zap.L().Warn("Unrecognized provider status",
			zap.String("token", transaction.Token), zap.String("status", response.Status))
	}
	return nil
}

func (s *Service) handleRateLimit(transaction domain.OnRampTransaction, respHeaders http.Header, attempt int) error {
	retryAfterHeader := respHeaders.Get("Retry-After")
	retryAfter := retryInterval * time.Duration(attempt)

	if retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	zap.L().Warn(
		"Rate limit from provider, retrying",
		zap.String("token", transaction.Token),
		zap.Int("attempt", attempt),
		zap.Duration("retryAfter", retryAfter),
	)
	time.Sleep(retryAfter)
	return nil
}
