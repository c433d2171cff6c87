/*
Package codec provides protobuf wire format encoding helpers used by all
models, messages and transactions.

Each persistent type writes its fields in ascending field number order using
an Encoder and reads them back with a Decoder:

	func (m *Wallet) Marshal() ([]byte, error) {
		e := codec.NewEncoder()
		e.Uint64(1, m.Lamports)
		return e.Result()
	}

	func (m *Wallet) Unmarshal(raw []byte) error {
		d := codec.NewDecoder(raw)
		for d.Next() {
			switch d.Field() {
			case 1:
				m.Lamports = d.Uint64()
			default:
				d.Skip()
			}
		}
		return d.Err()
	}

Zero values are not written, which keeps the encoding compatible with
proto3 generated code.
*/
package codec
