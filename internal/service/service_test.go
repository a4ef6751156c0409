package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/avencore/investcore/internal/notify"
	"github.com/avencore/investcore/internal/pg"
	"github.com/avencore/investcore/internal/repo"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxManager := pg.NewMockTXManager(ctrl)

	services := New(repo.New(nil), mockTxManager, notify.Noop{}, "admin@investcore.local")

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.DepositService)
	assert.NotNil(t, services.InvestmentService)
	assert.NotNil(t, services.WithdrawalService)
	assert.NotNil(t, services.HistoryService)
}
