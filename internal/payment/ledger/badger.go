package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"tourmint/internal/payment/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

// Key layout. Transfer sequence numbers are big-endian so the log iterates in order.
const (
	prefixBalance  = "LEDGER:BALANCE:"
	prefixTransfer = "LEDGER:TRANSFER:"
	keySeq         = "LEDGER:SEQ"
)

// transferRecord is the msgpack encoding of a logged transfer.
type transferRecord struct {
	Amount    uint64 `msgpack:"amount"`
	From      string `msgpack:"from"`
	To        string `msgpack:"to"`
	CreatedAt int64  `msgpack:"created_at"`
	Opened    bool   `msgpack:"opened"`
}

// Badger keeps balances and the transfer log in an embedded badger database.
// Each Transfer is one badger transaction.
type Badger struct {
	db *badger.DB
}

func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

func balanceKey(account id.Identity) []byte {
	return []byte(prefixBalance + account.String())
}

func transferKey(seq uint64) []byte {
	key := make([]byte, len(prefixTransfer)+8)
	copy(key, prefixTransfer)
	binary.BigEndian.PutUint64(key[len(prefixTransfer):], seq)
	return key
}

// readUint loads an 8-byte big-endian counter. A missing key reports found=false.
func readUint(txn *badger.Txn, key []byte) (uint64, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var v uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt counter at %q", key)
		}
		v = binary.BigEndian.Uint64(val)
		return nil
	})
	return v, err == nil, err
}

func writeUint(txn *badger.Txn, key []byte, v uint64) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, v)
	return txn.Set(key, val)
}

// Seed opens an account with the given balance. Existing accounts are untouched.
func (l *Badger) Seed(_ context.Context, account id.Identity, amount uint64) (bool, error) {
	var created bool
	err := l.db.Update(func(txn *badger.Txn) error {
		_, exists, err := readUint(txn, balanceKey(account))
		if err != nil || exists {
			return err
		}
		created = true
		return writeUint(txn, balanceKey(account), amount)
	})
	if err != nil {
		return false, fmt.Errorf("seed account %s: %w", account, err)
	}
	return created, nil
}

// Transfer debits from and credits to. A self-transfer still requires the funds.
func (l *Badger) Transfer(ctx context.Context, amount uint64, from, to id.Identity) error {
	return l.db.Update(func(txn *badger.Txn) error {
		fromBalance, _, err := readUint(txn, balanceKey(from))
		if err != nil {
			return err
		}
		if fromBalance < amount {
			return models.ErrInsufficientFunds
		}
		if err := writeUint(txn, balanceKey(from), fromBalance-amount); err != nil {
			return err
		}
		toBalance, exists, err := readUint(txn, balanceKey(to))
		if err != nil {
			return err
		}
		if err := writeUint(txn, balanceKey(to), toBalance+amount); err != nil {
			return err
		}

		seq, _, err := readUint(txn, []byte(keySeq))
		if err != nil {
			return err
		}
		record := transferRecord{
			Amount:    amount,
			From:      from.String(),
			To:        to.String(),
			CreatedAt: requestcontext.Now(ctx).UnixNano(),
			Opened:    !exists,
		}
		val, err := msgpack.Marshal(record)
		if err != nil {
			return err
		}
		if err := txn.Set(transferKey(seq), val); err != nil {
			return err
		}
		return writeUint(txn, []byte(keySeq), seq+1)
	})
}

func (l *Badger) Balance(_ context.Context, account id.Identity) (uint64, error) {
	var balance uint64
	err := l.db.View(func(txn *badger.Txn) error {
		var err error
		balance, _, err = readUint(txn, balanceKey(account))
		return err
	})
	return balance, err
}

// Transfers returns the transfer log, oldest first.
func (l *Badger) Transfers(_ context.Context) ([]models.Transfer, error) {
	out := []models.Transfer{}
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixTransfer)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var record transferRecord
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			out = append(out, models.Transfer{
				Amount:    record.Amount,
				From:      id.Identity(record.From),
				To:        id.Identity(record.To),
				CreatedAt: time.Unix(0, record.CreatedAt).UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Mark returns the next transfer sequence number.
func (l *Badger) Mark(_ context.Context) (uint64, error) {
	var seq uint64
	err := l.db.View(func(txn *badger.Txn) error {
		var err error
		seq, _, err = readUint(txn, []byte(keySeq))
		return err
	})
	return seq, err
}

// RevertTo undoes transfers at or after mark, newest first, in one badger
// transaction. Accounts opened by a reverted transfer are deleted.
func (l *Badger) RevertTo(_ context.Context, mark uint64) error {
	return l.db.Update(func(txn *badger.Txn) error {
		seq, _, err := readUint(txn, []byte(keySeq))
		if err != nil {
			return err
		}
		if mark > seq {
			return fmt.Errorf("revert mark %d beyond log length %d", mark, seq)
		}
		for i := seq; i > mark; i-- {
			key := transferKey(i - 1)
			item, err := txn.Get(key)
			if err != nil {
				return err
			}
			var record transferRecord
			if err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			if err := l.move(txn, record); err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return writeUint(txn, []byte(keySeq), mark)
	})
}

// move applies the inverse of a logged transfer.
func (l *Badger) move(txn *badger.Txn, record transferRecord) error {
	from, to := id.Identity(record.From), id.Identity(record.To)
	toBalance, _, err := readUint(txn, balanceKey(to))
	if err != nil {
		return err
	}
	if err := writeUint(txn, balanceKey(to), toBalance-record.Amount); err != nil {
		return err
	}
	fromBalance, _, err := readUint(txn, balanceKey(from))
	if err != nil {
		return err
	}
	if err := writeUint(txn, balanceKey(from), fromBalance+record.Amount); err != nil {
		return err
	}
	if record.Opened {
		return txn.Delete(balanceKey(to))
	}
	return nil
}
