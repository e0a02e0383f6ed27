package orders

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/till/internal/domain/catalogue"
	dorders "github.com/ministore/till/internal/domain/orders"
)

// fakeRemote is a scriptable remote order service.
type fakeRemote struct {
	nextNumber int
	failNext   bool
	settled    []*catalogue.Basket
}

func (f *fakeRemote) call() error {
	if f.failNext {
		f.failNext = false
		return errors.New("connection reset")
	}
	return nil
}

func (f *fakeRemote) NewOrder(_ context.Context, b *catalogue.Basket) error {
	if err := f.call(); err != nil {
		return err
	}
	f.settled = append(f.settled, b)
	return nil
}

func (f *fakeRemote) UniqueNumber(_ context.Context) (int, error) {
	if err := f.call(); err != nil {
		return 0, err
	}
	f.nextNumber++
	return f.nextNumber, nil
}

func (f *fakeRemote) OrderToPack(_ context.Context) (*catalogue.Basket, error) {
	return nil, f.call()
}

func (f *fakeRemote) InformOrderPacked(_ context.Context, _ int) (bool, error) {
	return true, f.call()
}

func (f *fakeRemote) InformOrderCollected(_ context.Context, _ int) (bool, error) {
	return true, f.call()
}

func (f *fakeRemote) OrderState(_ context.Context) (dorders.StateSnapshot, error) {
	return dorders.StateSnapshot{}, f.call()
}

// countingDialer tracks binds and can be scripted to fail.
type countingDialer struct {
	remote  *fakeRemote
	dials   int
	dialErr error
}

func (d *countingDialer) dial(_ context.Context) (dorders.RemoteService, error) {
	d.dials++
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	return d.remote, nil
}

func TestFacadeBindsLazily(t *testing.T) {
	d := &countingDialer{remote: &fakeRemote{}}
	f := NewFacade(d.dial, nil)

	assert.Equal(t, 0, d.dials, "construction must not dial")

	_, err := f.UniqueNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.dials)

	_, err = f.UniqueNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.dials, "healthy handle must be reused")
}

func TestFacadeDropsHandleOnErrorAndRebinds(t *testing.T) {
	d := &countingDialer{remote: &fakeRemote{failNext: true}}
	f := NewFacade(d.dial, nil)

	_, err := f.UniqueNumber(context.Background())
	var terr *dorders.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "uniqueNumber", terr.Op)

	// Next call rebinds and succeeds.
	n, err := f.UniqueNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, d.dials)
}

func TestFacadeDialFailureSurfacesAsTransport(t *testing.T) {
	d := &countingDialer{remote: &fakeRemote{}, dialErr: errors.New("no route to host")}
	f := NewFacade(d.dial, nil)

	err := f.NewOrder(context.Background(), catalogue.NewBasket())
	var terr *dorders.TransportError
	require.ErrorAs(t, err, &terr)
	assert.ErrorContains(t, err, "no route to host")
}

func TestFacadeSettleDoesNotTouchPendingStore(t *testing.T) {
	d := &countingDialer{remote: &fakeRemote{}}
	f := NewFacade(d.dial, nil)
	ctx := context.Background()

	n, err := f.NewPendingOrder(ctx, testBasket("0001", "4.99", 1))
	require.NoError(t, err)

	b, err := f.GetPendingOrder(ctx, n)
	require.NoError(t, err)
	require.NotNil(t, b)

	require.NoError(t, f.NewOrder(ctx, b))

	// Settling is remote-only; the pending entry survives until a caller
	// clears it explicitly.
	still, err := f.GetPendingOrder(ctx, n)
	require.NoError(t, err)
	assert.NotNil(t, still)

	taken, err := f.TakePendingOrder(ctx, n)
	require.NoError(t, err)
	assert.NotNil(t, taken)

	gone, err := f.GetPendingOrder(ctx, n)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestFacadeLocalOpsWorkWhileRemoteIsDown(t *testing.T) {
	d := &countingDialer{remote: &fakeRemote{}, dialErr: errors.New("down")}
	f := NewFacade(d.dial, nil)
	ctx := context.Background()

	n, err := f.NewPendingOrder(ctx, testBasket("0001", "4.99", 1))
	require.NoError(t, err)
	assert.Equal(t, 1000, n)
	assert.Equal(t, 0, d.dials, "pending store must not dial")
}
