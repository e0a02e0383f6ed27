package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
	"github.com/ministore/till/internal/orderserver"
	"github.com/ministore/till/internal/remote"
)

func wireBasket() *catalogue.Basket {
	b := catalogue.NewBasket()
	b.SetOrderNumber(1000)
	b.Add(catalogue.Product{
		Code:        "0001",
		Description: "40 inch LED HD TV",
		UnitPrice:   decimal.RequireFromString("269.00"),
		Quantity:    1,
		ImageRef:    "images/pic0001.jpg",
	})
	b.Add(catalogue.Product{
		Code:        "0006",
		Description: "Caféteière £9 — спец",
		UnitPrice:   decimal.RequireFromString("7.99"),
		Quantity:    3,
	})
	return b
}

func TestBasketRoundTripIsExact(t *testing.T) {
	b := wireBasket()

	got, err := remote.UnmarshalBasket(remote.MarshalBasket(b))
	require.NoError(t, err)

	assert.Equal(t, b.OrderNumber(), got.OrderNumber())
	require.Equal(t, b.Size(), got.Size())
	want, have := b.Lines(), got.Lines()
	for i := range want {
		assert.Equal(t, want[i].Code, have[i].Code)
		assert.Equal(t, want[i].Description, have[i].Description, "UTF-8 must survive")
		assert.True(t, want[i].UnitPrice.Equal(have[i].UnitPrice),
			"price drift: %s vs %s", want[i].UnitPrice, have[i].UnitPrice)
		assert.Equal(t, want[i].Quantity, have[i].Quantity)
	}
	assert.True(t, b.Total().Equal(got.Total()))
}

func TestStateRoundTrip(t *testing.T) {
	snap := orders.StateSnapshot{
		orders.StageWaiting:       {1, 2, 3},
		orders.StageBeingPacked:   {},
		orders.StageToBeCollected: {9},
	}

	got, err := remote.UnmarshalState(remote.MarshalState(snap))
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

// testServer exposes the order service plus the liveness probe the dialer
// expects.
func testServer(t *testing.T) (*httptest.Server, *orderserver.Service) {
	t.Helper()
	svc := orderserver.New(nil)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", orderserver.Router(svc))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc
}

func TestClientAgainstOrderServer(t *testing.T) {
	srv, _ := testServer(t)
	c := remote.NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	n, err := c.UniqueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	basket := wireBasket()
	require.NoError(t, c.NewOrder(ctx, basket))

	snap, err := c.OrderState(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1000}, snap[orders.StageWaiting])

	got, err := c.OrderToPack(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1000, got.OrderNumber())
	assert.True(t, basket.Total().Equal(got.Total()))

	ok, err := c.InformOrderPacked(ctx, 1000)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.InformOrderCollected(ctx, 1000)
	require.NoError(t, err)
	assert.True(t, ok)

	// Queue drained: the next pack request answers 204, seen as nil.
	empty, err := c.OrderToPack(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestDialerFailsWhenServerIsDown(t *testing.T) {
	srv, _ := testServer(t)
	url := srv.URL
	srv.Close()

	_, err := remote.Dialer(url, nil)(context.Background())
	require.Error(t, err)
}

func TestDialerSucceedsAgainstLiveServer(t *testing.T) {
	srv, _ := testServer(t)

	svc, err := remote.Dialer(srv.URL, srv.Client())(context.Background())
	require.NoError(t, err)
	require.NotNil(t, svc)

	n, err := svc.UniqueNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClientSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := remote.NewClient(srv.URL, srv.Client())
	_, err := c.UniqueNumber(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "500")
}
