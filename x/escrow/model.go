package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/token"
)

const (
	// Program is the program name the escrow record addresses are derived
	// with.
	Program = "escrow"

	// RecordSize is the data size used to compute the record rent.
	RecordSize = 121
)

// Escrow is the record of an open swap. It is stored under its program
// derived address, which is also the owner of the vault.
type Escrow struct {
	Metadata *ledger.Metadata
	// Maker opened the escrow and receives the mint B tokens.
	Maker ledger.Address
	// MintA is the mint of the deposited tokens.
	MintA ledger.Address
	// MintB is the mint of the requested tokens.
	MintB ledger.Address
	// Receive is the amount of mint B tokens the maker wants.
	Receive uint64
	// Seed allows the same maker to open many escrows.
	Seed uint64
	// Bump completes the derivation of the record address.
	Bump uint8
	// Rent is the amount of lamports locked by this record.
	Rent uint64
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	errs = errors.AppendField(errs, "MintA", e.MintA.Validate())
	errs = errors.AppendField(errs, "MintB", e.MintB.Validate())
	if e.MintA.Equals(e.MintB) {
		errs = errors.Append(errs, errors.Field("MintB", errors.ErrInvalidInput, "must differ from mint a"))
	}
	if e.Receive == 0 {
		errs = errors.Append(errs, errors.Field("Receive", errors.ErrInvalidAmount, "must be greater than zero"))
	}
	return errs
}

func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Metadata: e.Metadata.Copy(),
		Maker:    e.Maker.Clone(),
		MintA:    e.MintA.Clone(),
		MintB:    e.MintB.Clone(),
		Receive:  e.Receive,
		Seed:     e.Seed,
		Bump:     e.Bump,
		Rent:     e.Rent,
	}
}

func (e *Escrow) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	enc.Message(1, e.Metadata)
	enc.RawBytes(2, e.Maker)
	enc.RawBytes(3, e.MintA)
	enc.RawBytes(4, e.MintB)
	enc.Uint64(5, e.Receive)
	enc.Uint64(6, e.Seed)
	enc.Uint64(7, uint64(e.Bump))
	enc.Uint64(8, e.Rent)
	return enc.Result()
}

func (e *Escrow) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			e.Metadata = new(ledger.Metadata)
			d.Message(e.Metadata)
		case 2:
			e.Maker = d.RawBytes()
		case 3:
			e.MintA = d.RawBytes()
		case 4:
			e.MintB = d.RawBytes()
		case 5:
			e.Receive = d.Uint64()
		case 6:
			e.Seed = d.Uint64()
		case 7:
			e.Bump = d.Uint8()
		case 8:
			e.Rent = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// Signer returns the signing context of the record address. It authorizes
// transfers out of the vault and its closing.
func (e *Escrow) Signer() x.ProgramSigner {
	return x.NewProgramSigner(Program, e.Bump, e.Maker, seedBytes(e.Seed))
}

// NewBucket returns a bucket for escrow records, indexed by maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("maker", makerIndexer, false))
}

func makerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return e.Maker, nil
}

// RecordAddress returns the address of the escrow record opened by the
// maker with given seed, together with the bump it was derived with.
func RecordAddress(maker ledger.Address, seed uint64) (ledger.Address, uint8, error) {
	if err := maker.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "maker")
	}
	addr, bump, err := ledger.FindProgramAddress(Program, maker, seedBytes(seed))
	if err != nil {
		return nil, 0, errors.Wrap(err, "derive record address")
	}
	return addr, bump, nil
}

// VaultAddress returns the address of the vault of given escrow record.
func VaultAddress(record, mintA ledger.Address) (ledger.Address, error) {
	return token.AssociatedAddress(record, mintA)
}

func seedBytes(seed uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seed)
	return b
}
