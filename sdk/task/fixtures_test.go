package task

import (
	"bytes"
	"context"
	"encoding/hex"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agenticaihome/agenticaihome-v2/pkg/address"
	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/explorer"
	"github.com/agenticaihome/agenticaihome-v2/pkg/txbuilder"
	"github.com/agenticaihome/agenticaihome-v2/pkg/wallet"
	"github.com/agenticaihome/agenticaihome-v2/sdk/config"
)

// fakeLedger is an in-memory explorer.Gateway.
type fakeLedger struct {
	mu      sync.Mutex
	height  int32
	records map[string]boxes.RawRecord
	txs     map[string]*explorer.Transaction

	heightCalls int
	listCalls   map[string]int
	listErr     error
}

var _ explorer.Gateway = (*fakeLedger)(nil)

func newFakeLedger(height int32) *fakeLedger {
	return &fakeLedger{
		height:    height,
		records:   map[string]boxes.RawRecord{},
		txs:       map[string]*explorer.Transaction{},
		listCalls: map[string]int{},
	}
}

func (l *fakeLedger) put(rec boxes.RawRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[rec.BoxID] = rec
}

func (l *fakeLedger) spend(boxID, txID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := l.records[boxID]
	rec.SpentTransactionID = &txID
	l.records[boxID] = rec
}

func (l *fakeLedger) setHeight(h int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height = h
}

func (l *fakeLedger) queries(addr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listCalls[addr]
}

func (l *fakeLedger) GetBox(_ context.Context, boxID string) (*boxes.RawRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[boxID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (l *fakeLedger) GetUnspentByAddress(_ context.Context, addr string, offset, limit int) (*explorer.Page, error) {
	return l.list(addr, offset, limit, func(r boxes.RawRecord) bool { return r.Address == addr })
}

func (l *fakeLedger) GetUnspentByTokenID(_ context.Context, tokenID string, offset, limit int) (*explorer.Page, error) {
	return l.list(tokenID, offset, limit, func(r boxes.RawRecord) bool { return r.TokenAmount(tokenID) > 0 })
}

func (l *fakeLedger) list(key string, offset, limit int, match func(boxes.RawRecord) bool) (*explorer.Page, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listCalls[key]++
	if l.listErr != nil {
		return nil, l.listErr
	}

	var matched []boxes.RawRecord
	for _, r := range l.records {
		if !r.Spent() && match(r) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].BoxID < matched[j].BoxID })

	page := &explorer.Page{Total: len(matched), Items: []boxes.RawRecord{}}
	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page.Items = matched[offset:end]
	}
	return page, nil
}

func (l *fakeLedger) GetCurrentHeight(context.Context) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.heightCalls++
	return l.height, nil
}

func (l *fakeLedger) GetTransaction(_ context.Context, txID string) (*explorer.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txs[txID], nil
}

// Guard scripts used by the fixtures.
var (
	taskTree    = []byte{0x10, 0x01, 0x04, 0x00, 0xd1, 0x01}
	receiptTree = []byte{0x10, 0x01, 0x04, 0x00, 0xd1, 0x02}
	failureTree = []byte{0x10, 0x01, 0x04, 0x00, 0xd1, 0x03}
	ratingTree  = []byte{0x10, 0x01, 0x04, 0x00, 0xd1, 0x04}
	bondTree    = []byte{0x10, 0x01, 0x04, 0x00, 0xd1, 0x05}
	bountyTree  = []byte{0x10, 0x01, 0x04, 0x00, 0xd1, 0x06}

	taskAddr    = address.FromErgoTree(address.Mainnet, taskTree)
	receiptAddr = address.FromErgoTree(address.Mainnet, receiptTree)
	failureAddr = address.FromErgoTree(address.Mainnet, failureTree)
	ratingAddr  = address.FromErgoTree(address.Mainnet, ratingTree)
	bondAddr    = address.FromErgoTree(address.Mainnet, bondTree)
	bountyAddr  = address.FromErgoTree(address.Mainnet, bountyTree)
)

const walletBoxValue = 10_000_000_000

func compressedKey(b byte) []byte {
	return append([]byte{0x02}, bytes.Repeat([]byte{b}, 32)...)
}

func boxID(b byte) string {
	return hex.EncodeToString(bytes.Repeat([]byte{b}, boxes.BoxIDSize))
}

func testConfig(t *testing.T, opts ...config.Option) config.Config {
	t.Helper()
	base := []config.Option{
		config.WithContracts(config.ContractsConfig{
			Task:               taskAddr,
			Receipt:            receiptAddr,
			FailureReceipt:     failureAddr,
			Rating:             ratingAddr,
			Bond:               bondAddr,
			VerificationBounty: bountyAddr,
		}),
		config.WithPoll(3, time.Millisecond),
	}
	cfg, err := config.New(append(base, opts...)...)
	require.NoError(t, err)
	return *cfg
}

type harness struct {
	t       *testing.T
	ledger  *fakeLedger
	wallet  *wallet.MockWallet
	manager *ManagerImpl

	clientKey  []byte
	changeAddr string
	changeTree string
}

func newHarness(t *testing.T, height int32, opts ...Option) *harness {
	t.Helper()
	return newHarnessWithConfig(t, height, testConfig(t), opts...)
}

func newHarnessWithConfig(t *testing.T, height int32, cfg config.Config, opts ...Option) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		t:         t,
		ledger:    newFakeLedger(height),
		wallet:    wallet.NewMockWallet(ctrl),
		clientKey: compressedKey(0x11),
	}
	h.changeAddr = address.FromPublicKey(address.Mainnet, h.clientKey)
	h.changeTree = hex.EncodeToString(address.P2PKTree(h.clientKey))

	m, err := NewManagerWithClients(context.Background(), cfg, nil, h.ledger, h.wallet, opts...)
	require.NoError(t, err)
	h.manager = m.(*ManagerImpl)
	t.Cleanup(func() { _ = h.manager.Close(context.Background()) })
	return h
}

func (h *harness) walletInput(id byte, value uint64, assets ...boxes.Asset) txbuilder.Input {
	return txbuilder.Input{
		BoxID:               boxID(id),
		TransactionID:       "wallet-tx",
		Value:               value,
		ErgoTree:            h.changeTree,
		Assets:              assets,
		AdditionalRegisters: boxes.Registers{},
	}
}

// expectSubmit sets up a wallet that funds, signs and submits one
// transaction, returning a pointer that receives the signed transaction.
func (h *harness) expectSubmit(amount uint64, txID string) **txbuilder.UnsignedTx {
	captured := new(*txbuilder.UnsignedTx)
	h.wallet.EXPECT().ChangeAddress(gomock.Any()).Return(h.changeAddr, nil)
	h.wallet.EXPECT().UTXOs(gomock.Any(), amount, "", uint64(0)).Return([]txbuilder.Input{h.walletInput(0xee, walletBoxValue)}, nil)
	h.wallet.EXPECT().Sign(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *txbuilder.UnsignedTx) (*txbuilder.SignedTx, error) {
			*captured = tx
			return &txbuilder.SignedTx{ID: txID}, nil
		})
	h.wallet.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(txID, nil)
	return captured
}

// putTask stores an unspent Task box.
func (h *harness) putTask(id string, deadline int32, serviceHash []byte, assets ...boxes.Asset) boxes.RawRecord {
	h.t.Helper()
	params := boxes.TaskParams{
		ServiceHash:     serviceHash,
		InputCommitment: bytes.Repeat([]byte{0xc0}, 32),
		PaymentAmount:   100_000_000,
		DeadlineBlock:   deadline,
		ClientKey:       h.clientKey,
	}
	if len(assets) > 0 {
		params.PaymentToken = assets[0].TokenID
		params.PaymentAmount = assets[0].Amount
	}
	c, err := boxes.MaterializeTask(params)
	require.NoError(h.t, err)

	rec := c.Record(id, "post-tx", 0, hex.EncodeToString(taskTree), 100)
	rec.Address = taskAddr
	h.ledger.put(rec)
	return rec
}

func (h *harness) putReceipt(id, taskID string) {
	h.t.Helper()
	c, err := boxes.MaterializeReceipt(boxes.ReceiptParams{
		TaskID:         taskID,
		OutputHash:     bytes.Repeat([]byte{0x0a}, 32),
		NodeKey:        compressedKey(0x22),
		ExecutionBlock: 150,
	})
	require.NoError(h.t, err)
	rec := c.Record(id, "receipt-tx", 0, hex.EncodeToString(receiptTree), 150)
	rec.Address = receiptAddr
	h.ledger.put(rec)
}

func (h *harness) putFailureReceipt(id, taskID string) {
	h.t.Helper()
	c, err := boxes.MaterializeFailureReceipt(boxes.FailureReceiptParams{
		TaskID:            taskID,
		FailureReasonHash: bytes.Repeat([]byte{0x0f}, 32),
		NodeKey:           compressedKey(0x22),
		FailureBlock:      150,
	})
	require.NoError(h.t, err)
	rec := c.Record(id, "failure-tx", 0, hex.EncodeToString(failureTree), 150)
	rec.Address = failureAddr
	h.ledger.put(rec)
}

// recordFromOutput turns a built output into the ledger record it becomes.
func recordFromOutput(out txbuilder.Output, id, txID, addr string) boxes.RawRecord {
	c := boxes.Candidate{Value: out.Value, Assets: out.Assets, Registers: out.AdditionalRegisters}
	rec := c.Record(id, txID, 0, out.ErgoTree, out.CreationHeight)
	rec.Address = addr
	return rec
}

// emptyOutput is a register-less box under tree, malformed for every entity.
func (h *harness) emptyOutput(tree []byte) txbuilder.Output {
	return txbuilder.Output{
		Value:               boxes.MinBoxValue,
		ErgoTree:            hex.EncodeToString(tree),
		CreationHeight:      100,
		AdditionalRegisters: boxes.Registers{},
	}
}
