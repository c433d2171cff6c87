package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

// ConfigurationName is the gconf name of the token program configuration.
const ConfigurationName = "token"

// Configuration declares the price of keeping data in the ledger.
type Configuration struct {
	Metadata *ledger.Metadata `json:"metadata"`
	// Owner may update the configuration. Optional.
	Owner ledger.Address `json:"owner"`
	// LamportsPerByte is the rent price of a single byte of account data.
	LamportsPerByte uint64 `json:"lamports_per_byte"`
	// AccountOverhead is the number of bytes charged for every account on
	// top of its data.
	AccountOverhead uint64 `json:"account_overhead"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.LamportsPerByte == 0 {
		errs = errors.Append(errs, errors.Field("LamportsPerByte", errors.ErrInvalidState, "must be greater than zero"))
	}
	return errs
}

func (c *Configuration) GetOwner() ledger.Address {
	return c.Owner
}

// MinimumBalance returns the rent exempt amount of lamports that an
// account storing dataLen bytes must hold.
func (c *Configuration) MinimumBalance(dataLen uint64) (uint64, error) {
	size := c.AccountOverhead + dataLen
	if size < dataLen {
		return 0, errors.Wrap(errors.ErrOverflow, "account size")
	}
	if c.LamportsPerByte != 0 && size > ^uint64(0)/c.LamportsPerByte {
		return 0, errors.Wrap(errors.ErrOverflow, "rent")
	}
	return size * c.LamportsPerByte, nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, c.Metadata)
	e.RawBytes(2, c.Owner)
	e.Uint64(3, c.LamportsPerByte)
	e.Uint64(4, c.AccountOverhead)
	return e.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Metadata = new(ledger.Metadata)
			d.Message(c.Metadata)
		case 2:
			c.Owner = d.RawBytes()
		case 3:
			c.LamportsPerByte = d.Uint64()
		case 4:
			c.AccountOverhead = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ConfigurationName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// MinimumBalance returns the rent exempt amount of lamports for an account
// storing dataLen bytes, using the configuration stored in the database.
func MinimumBalance(db gconf.ReadStore, dataLen uint64) (uint64, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	return conf.MinimumBalance(dataLen)
}
