package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkReadyCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewMarkReadyCommand("O1", "WH-1")
	require.NoError(t, err)

	mine := labeledLine(t, "L1", "O1", "WH-1")
	other := claimedLine(t, "L2", "O1", "WH-2")
	stored := storedLabel(t, "O1", "AWB-1")

	repo := new(MockOrderLineRepository)
	labels := new(MockLabelRepository)
	gateway := new(MockGateway)
	uow := new(MockUoW)
	uow.On("OrderLineRepository").Return(repo)
	uow.On("LabelRepository").Return(labels)

	mock.InOrder(
		repo.On("ListByOrderID", ctx, "O1").Return([]*orderline.OrderLine{mine, other}, nil).Once(),
		labels.On("Get", ctx, "O1").Return(stored, nil).Once(),
		gateway.On("CreateManifest", ctx, "O1", []string{"AWB-1"}).Return("MF-7", nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		labels.On("Save", ctx, mock.MatchedBy(func(l *label.Label) bool {
			return l.IsManifest() && l.ManifestID() == "MF-7"
		})).Return(nil).Once(),
		repo.On("UpdateIfStatus", ctx, mine, orderline.Claimed).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	manifestID, err := commands.NewMarkReadyCommandHandler(factory, gateway, 4, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "MF-7", manifestID)
	assert.Equal(t, orderline.ReadyForHandover, mine.Status())
	assert.Equal(t, orderline.Claimed, other.Status())
	repo.AssertExpectations(t)
	labels.AssertExpectations(t)
	gateway.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMarkReadyCommandHandler_Handle_LabelNotDownloaded(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewMarkReadyCommand("O1", "WH-1")
	require.NoError(t, err)

	repo := new(MockOrderLineRepository)
	gateway := new(MockGateway)
	uow := new(MockUoW)
	uow.On("OrderLineRepository").Return(repo)
	repo.On("ListByOrderID", ctx, "O1").
		Return([]*orderline.OrderLine{labeledLine(t, "L1", "O1", "WH-1"), claimedLine(t, "L2", "O1", "WH-1")}, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewMarkReadyCommandHandler(factory, gateway, 4, discardLogger()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrLabelNotReady)
	gateway.AssertNotCalled(t, "CreateManifest", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestMarkReadyCommandHandler_Handle_NothingClaimed(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewMarkReadyCommand("O1", "WH-1")
	require.NoError(t, err)

	repo := new(MockOrderLineRepository)
	uow := new(MockUoW)
	uow.On("OrderLineRepository").Return(repo)
	repo.On("ListByOrderID", ctx, "O1").Return([]*orderline.OrderLine{newLine(t, "L1", "O1")}, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewMarkReadyCommandHandler(factory, new(MockGateway), 4, discardLogger()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrNothingClaimed)
}

func TestMarkReadyCommandHandler_Handle_ManifestFailureKeepsState(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewMarkReadyCommand("O1", "WH-1")
	require.NoError(t, err)

	line := labeledLine(t, "L1", "O1", "WH-1")
	repo := new(MockOrderLineRepository)
	labels := new(MockLabelRepository)
	gateway := new(MockGateway)
	uow := new(MockUoW)
	uow.On("OrderLineRepository").Return(repo)
	uow.On("LabelRepository").Return(labels)
	repo.On("ListByOrderID", ctx, "O1").Return([]*orderline.OrderLine{line}, nil).Once()
	labels.On("Get", ctx, "O1").Return(storedLabel(t, "O1", "AWB-1"), nil).Once()
	gateway.On("CreateManifest", ctx, "O1", []string{"AWB-1"}).Return("", errors.New("oms down")).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewMarkReadyCommandHandler(factory, gateway, 4, discardLogger()).Handle(ctx, cmd)

	require.EqualError(t, err, "oms down")
	assert.Equal(t, orderline.Claimed, line.Status())
	uow.AssertNotCalled(t, "Begin", mock.Anything)
	labels.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMarkReadyCommandHandler_HandleBulk(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewBulkMarkReadyCommand([]string{"O1", "O2", "O3"}, "WH-1")
	require.NoError(t, err)

	repo := new(MockOrderLineRepository)
	labels := new(MockLabelRepository)
	gateway := new(MockGateway)
	uow := new(MockUoW)
	uow.On("OrderLineRepository").Return(repo)
	uow.On("LabelRepository").Return(labels)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	for _, id := range []string{"O1", "O3"} {
		repo.On("ListByOrderID", ctx, id).Return([]*orderline.OrderLine{labeledLine(t, "L-"+id, id, "WH-1")}, nil).Once()
		labels.On("Get", ctx, id).Return(storedLabel(t, id, "AWB-"+id), nil).Once()
		gateway.On("CreateManifest", ctx, id, []string{"AWB-" + id}).Return("MF-"+id, nil).Once()
	}
	repo.On("ListByOrderID", ctx, "O2").Return([]*orderline.OrderLine{}, nil).Once()
	labels.On("Save", ctx, mock.Anything).Return(nil)
	repo.On("UpdateIfStatus", ctx, mock.Anything, orderline.Claimed).Return(nil)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	result, err := commands.NewMarkReadyCommandHandler(factory, gateway, 2, discardLogger()).HandleBulk(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []string{"O1", "O3"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "O2", result.Failed[0].ID)
	assert.ErrorIs(t, result.Failed[0].Err, errs.ErrObjectNotFound)
	gateway.AssertExpectations(t)
}
