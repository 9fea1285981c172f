package main

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/thejohanmagnusson/bidding-contract/core"
	"github.com/thejohanmagnusson/bidding-contract/hostapi"
)

// dispatchJSON marshals a request, runs it through the server dispatch and
// decodes the response into out.
func dispatchJSON(t *testing.T, s *AuctionServer, req any, out any) {
	t.Helper()

	raw, err := json.Marshal(req)
	assert.NoError(t, err)

	resp := s.dispatch(raw)
	encoded, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(encoded, out))
}

func bidRequest(sender string, amount uint64) hostapi.BidRequest {
	return hostapi.BidRequest{
		Type:   hostapi.TypeBid,
		Sender: sender,
		Funds:  atoms(amount),
	}
}

func TestDispatch_Ping(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.PingResponse
	dispatchJSON(t, server, hostapi.BaseRequest{Type: hostapi.TypePing}, &resp)

	check.Equal(t, "pong", resp.Type)
	check.NotEqual(t, int64(0), resp.Timestamp)
}

func TestDispatch_UnknownType(t *testing.T) {
	server := newTestServer(t)

	var resp map[string]any
	dispatchJSON(t, server, hostapi.BaseRequest{Type: "teleport"}, &resp)

	check.Equal(t, "error", resp["type"])
}

func TestDispatch_MalformedJSON(t *testing.T) {
	server := newTestServer(t)

	resp := server.dispatch([]byte("{not json"))
	m, ok := resp.(map[string]any)
	assert.True(t, ok)
	check.Equal(t, "error", m["type"])
}

func TestBidCommand_MovesFundsIntoEscrow(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 20), &resp)

	assert.True(t, resp.Success)
	check.NotEqual(t, "", resp.Receipt)

	// 20 leaves alice; the 10% commission goes straight to the owner and
	// the net 18 stays in contract custody.
	check.Equal(t, core.NewUint(80), balanceOf(t, server, "alice", "atom"))
	check.Equal(t, core.NewUint(52), balanceOf(t, server, "owner", "atom"))
	check.Equal(t, core.NewUint(18), balanceOf(t, server, defaultContractAddress, "atom"))
}

func TestBidCommand_RejectionRollsBackDeposit(t *testing.T) {
	server := newTestServer(t)

	// The owner must not bid; the deposit debited before the engine ran
	// has to come back with the rollback.
	var resp hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("owner", 20), &resp)

	check.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	check.Equal(t, hostapi.KindBiddingByOwner, resp.Error.Kind)
	check.Equal(t, core.NewUint(0), balanceOf(t, server, defaultContractAddress, "atom"))
	check.Equal(t, core.NewUint(50), balanceOf(t, server, "owner", "atom"))
}

func TestBidCommand_InsufficientFunds(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 500), &resp)

	check.False(t, resp.Success)
	check.Equal(t, core.NewUint(100), balanceOf(t, server, "alice", "atom"))
}

func TestCloseCommand_SweepsWinnerEscrow(t *testing.T) {
	server := newTestServer(t)

	var bid hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 20), &bid)
	assert.True(t, bid.Success)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, hostapi.CloseRequest{Type: hostapi.TypeClose, Sender: "owner"}, &resp)
	assert.True(t, resp.Success)

	// Owner's genesis 50 plus the 2 commission plus the swept 18 net.
	check.Equal(t, core.NewUint(70), balanceOf(t, server, "owner", "atom"))
	check.Equal(t, core.NewUint(0), balanceOf(t, server, defaultContractAddress, "atom"))
}

func TestCloseCommand_Unauthorized(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, hostapi.CloseRequest{Type: hostapi.TypeClose, Sender: "alice"}, &resp)

	check.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	check.Equal(t, hostapi.KindUnauthorized, resp.Error.Kind)
}

func TestRetractCommand_RefundsLoser(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 10), &resp)
	assert.True(t, resp.Success)
	dispatchJSON(t, server, bidRequest("bob", 20), &resp)
	assert.True(t, resp.Success)
	dispatchJSON(t, server, hostapi.CloseRequest{Type: hostapi.TypeClose, Sender: "owner"}, &resp)
	assert.True(t, resp.Success)

	dispatchJSON(t, server, hostapi.RetractRequest{Type: hostapi.TypeRetract, Sender: "alice"}, &resp)
	assert.True(t, resp.Success)

	// Alice gets her net 9 back on top of the 90 she kept.
	check.Equal(t, core.NewUint(99), balanceOf(t, server, "alice", "atom"))
}

func TestRetractCommand_AlternateReceiver(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 10), &resp)
	dispatchJSON(t, server, bidRequest("bob", 20), &resp)
	dispatchJSON(t, server, hostapi.CloseRequest{Type: hostapi.TypeClose, Sender: "owner"}, &resp)

	dispatchJSON(t, server, hostapi.RetractRequest{
		Type:     hostapi.TypeRetract,
		Sender:   "alice",
		Receiver: "cold-wallet",
	}, &resp)
	assert.True(t, resp.Success)

	check.Equal(t, core.NewUint(9), balanceOf(t, server, "cold-wallet", "atom"))
	check.Equal(t, core.NewUint(90), balanceOf(t, server, "alice", "atom"))
}

func TestRetractCommand_WinnerBlocked(t *testing.T) {
	server := newTestServer(t)

	var resp hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 20), &resp)
	dispatchJSON(t, server, hostapi.CloseRequest{Type: hostapi.TypeClose, Sender: "owner"}, &resp)

	dispatchJSON(t, server, hostapi.RetractRequest{Type: hostapi.TypeRetract, Sender: "alice"}, &resp)
	check.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	check.Equal(t, hostapi.KindRetractByWinner, resp.Error.Kind)
}

func TestQueries_RoundTrip(t *testing.T) {
	server := newTestServer(t)

	var cmd hostapi.CommandResponse
	dispatchJSON(t, server, bidRequest("alice", 20), &cmd)
	assert.True(t, cmd.Success)

	var info hostapi.AuctionResponse
	dispatchJSON(t, server, hostapi.BaseRequest{Type: hostapi.TypeAuction}, &info)
	assert.True(t, info.Success)
	assert.NotNil(t, info.Auction)
	check.Equal(t, "Sheep", info.Auction.Commodity)
	check.True(t, info.Auction.IsOpen)

	var bids hostapi.CoinResponse
	dispatchJSON(t, server, hostapi.BidsRequest{Type: hostapi.TypeBids, Address: "alice"}, &bids)
	assert.True(t, bids.Success)
	assert.NotNil(t, bids.Coin)
	check.Equal(t, core.NewUint(18), bids.Coin.Amount)

	var highest hostapi.BidRecordResponse
	dispatchJSON(t, server, hostapi.BaseRequest{Type: hostapi.TypeHighestBid}, &highest)
	assert.True(t, highest.Success)
	assert.NotNil(t, highest.Bid)
	check.Equal(t, "alice", highest.Bid.Address)
	check.Equal(t, core.NewUint(20), highest.Bid.Bid.Amount)

	var winner hostapi.BidRecordResponse
	dispatchJSON(t, server, hostapi.BaseRequest{Type: hostapi.TypeWinner}, &winner)
	assert.True(t, winner.Success)
	assert.NotNil(t, winner.Bid)
	check.Equal(t, "alice", winner.Bid.Address)

	var balances hostapi.BalancesResponse
	dispatchJSON(t, server, hostapi.BalancesRequest{Type: hostapi.TypeBalances, Address: "alice"}, &balances)
	assert.True(t, balances.Success)
	check.Equal(t, atoms(80), balances.Balances)
}

func TestBootstrap_Idempotent(t *testing.T) {
	server := newTestServer(t)

	// A second bootstrap against populated state must not re-instantiate
	// or re-mint genesis balances.
	assert.NoError(t, server.bootstrap())
	check.Equal(t, core.NewUint(100), balanceOf(t, server, "alice", "atom"))
}

func TestDispatch_ConcurrentCommandsAndQueries(t *testing.T) {
	server := newTestServer(t)

	// Commands and queries arrive on independent worker goroutines; the
	// volatile store must tolerate Views racing Update commits.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				var resp hostapi.CommandResponse
				dispatchJSON(t, server, bidRequest("alice", 1), &resp)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				var resp hostapi.BidRecordResponse
				dispatchJSON(t, server, hostapi.BaseRequest{Type: hostapi.TypeHighestBid}, &resp)
			}
		}()
	}
	wg.Wait()

	// 80 one-atom bids, commission floor(1*10/100)=0 each, all escrowed.
	check.Equal(t, core.NewUint(20), balanceOf(t, server, "alice", "atom"))
	check.Equal(t, core.NewUint(80), balanceOf(t, server, defaultContractAddress, "atom"))
}
