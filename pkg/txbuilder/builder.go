package txbuilder

import (
	"sort"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// Builder collects inputs and outputs and balances them with a fee output
// and, when needed, a change output.
type Builder struct {
	height      int32
	inputs      []Input
	outputs     []Output
	fee         uint64
	changeTree  string
	minBoxValue uint64
	feeErgoTree string
}

// New starts a transaction created at height.
func New(height int32) *Builder {
	return &Builder{
		height:      height,
		minBoxValue: boxes.MinBoxValue,
		feeErgoTree: FeeErgoTree,
	}
}

// From appends inputs. Duplicate box ids are ignored.
func (b *Builder) From(inputs ...Input) *Builder {
	for _, in := range inputs {
		if !b.hasInput(in.BoxID) {
			b.inputs = append(b.inputs, in)
		}
	}
	return b
}

// To appends outputs.
func (b *Builder) To(outputs ...Output) *Builder {
	b.outputs = append(b.outputs, outputs...)
	return b
}

// PayFee sets the miner fee.
func (b *Builder) PayFee(amount uint64) *Builder {
	b.fee = amount
	return b
}

// SendChangeTo sets the guard script that receives leftover value and tokens.
func (b *Builder) SendChangeTo(ergoTree string) *Builder {
	b.changeTree = ergoTree
	return b
}

// WithMinBoxValue overrides the minimum value of the change output.
func (b *Builder) WithMinBoxValue(v uint64) *Builder {
	b.minBoxValue = v
	return b
}

// Build balances the transaction. Inputs must cover outputs plus fee, and
// any surplus must be large enough to form a change box.
func (b *Builder) Build() (*UnsignedTx, error) {
	if len(b.inputs) == 0 {
		return nil, errors.InvalidParameter("inputs", "at least one input", "none")
	}
	if b.fee == 0 {
		return nil, errors.InvalidParameter("fee", "> 0", "0")
	}

	var in, out uint64
	tokens := map[string]int64{}
	for _, i := range b.inputs {
		in += i.Value
		for _, a := range i.Assets {
			tokens[a.TokenID] += int64(a.Amount)
		}
	}
	for _, o := range b.outputs {
		out += o.Value
		for _, a := range o.Assets {
			tokens[a.TokenID] -= int64(a.Amount)
		}
	}

	required := out + b.fee
	if in < required {
		return nil, errors.Precondition("Wallet", "sufficient-funds", ">= "+strconv.FormatUint(required, 10), strconv.FormatUint(in, 10))
	}
	for id, left := range tokens {
		if left < 0 {
			return nil, errors.Precondition("Wallet", "sufficient-tokens", id, strconv.FormatInt(left, 10))
		}
	}

	outputs := append([]Output{}, b.outputs...)
	change := in - required
	changeAssets := leftoverAssets(tokens)
	if change > 0 || len(changeAssets) > 0 {
		if b.changeTree == "" {
			return nil, errors.InvalidParameter("changeAddress", "set when inputs exceed outputs", "empty")
		}
		if change < b.minBoxValue {
			return nil, errors.Precondition("Wallet", "sufficient-funds", "change >= "+strconv.FormatUint(b.minBoxValue, 10), strconv.FormatUint(change, 10))
		}
		outputs = append(outputs, Output{
			Value:               change,
			ErgoTree:            b.changeTree,
			CreationHeight:      b.height,
			Assets:              changeAssets,
			AdditionalRegisters: boxes.Registers{},
		})
	}
	outputs = append(outputs, Output{
		Value:               b.fee,
		ErgoTree:            b.feeErgoTree,
		CreationHeight:      b.height,
		Assets:              []boxes.Asset{},
		AdditionalRegisters: boxes.Registers{},
	})

	return &UnsignedTx{
		Inputs:     append([]Input{}, b.inputs...),
		DataInputs: []DataInput{},
		Outputs:    outputs,
	}, nil
}

func (b *Builder) hasInput(id string) bool {
	for _, in := range b.inputs {
		if in.BoxID == id {
			return true
		}
	}
	return false
}

func leftoverAssets(tokens map[string]int64) []boxes.Asset {
	assets := []boxes.Asset{}
	for id, left := range tokens {
		if left > 0 {
			assets = append(assets, boxes.Asset{TokenID: id, Amount: uint64(left)})
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].TokenID < assets[j].TokenID })
	return assets
}
