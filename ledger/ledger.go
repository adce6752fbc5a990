// Package ledger tracks per-wallet unlock and earnings bookkeeping.
//
// The ledger is the backend's own record of what each wallet has unlocked,
// spent and earned. It never computes revenue splits; amounts recorded here
// are facts already settled by the contract or the payment facilitator.
package ledger

import (
	"math/big"
	"strings"
	"sync"
	"time"
)

// UnlockRecord is one settled unlock. Records are append-only.
type UnlockRecord struct {
	ContentID       string    `json:"contentId"`
	TransactionHash string    `json:"transactionHash"`
	Price           string    `json:"price"`
	Referrer        string    `json:"referrer,omitempty"`
	UnlockedAt      time.Time `json:"unlockedAt"`
}

// Account holds everything the ledger knows about one wallet address.
// Monetary accumulators are kept as big.Int; wei-denominated totals overflow
// int64 quickly.
type Account struct {
	Address          string
	UnlockedContents []UnlockRecord
	CreatedContents  []string
	TotalSpent       *big.Int
	TotalEarned      *big.Int
	ReferralEarnings *big.Int
}

// Profile is the JSON projection of an account.
type Profile struct {
	Address          string         `json:"address"`
	UnlockedContents []UnlockRecord `json:"unlockedContents"`
	CreatedContents  []string       `json:"createdContents"`
	TotalSpent       string         `json:"totalSpent"`
	TotalEarned      string         `json:"totalEarned"`
	ReferralEarnings string         `json:"referralEarnings"`
}

// Stats is the derived read-only summary for one wallet.
type Stats struct {
	TotalUnlocked    int    `json:"totalUnlocked"`
	TotalCreated     int    `json:"totalCreated"`
	TotalSpent       string `json:"totalSpent"`
	TotalEarned      string `json:"totalEarned"`
	ReferralEarnings string `json:"referralEarnings"`
}

// Ledger is an in-memory, mutex-protected account store. Accounts are
// created lazily on first reference and never deleted. Safe for concurrent
// use.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
	}
}

// getOrCreateLocked returns the account for address, creating a zeroed one
// on first access. Addresses are compared case-insensitively; EIP-55
// checksum casing must not split one wallet into two accounts.
func (l *Ledger) getOrCreateLocked(address string) *Account {
	normalized := strings.ToLower(address)
	account, ok := l.accounts[normalized]
	if !ok {
		account = &Account{
			Address:          normalized,
			TotalSpent:       new(big.Int),
			TotalEarned:      new(big.Int),
			ReferralEarnings: new(big.Int),
		}
		l.accounts[normalized] = account
	}
	return account
}

// GetOrCreate returns a snapshot profile for the wallet, creating the
// account if it does not exist yet.
func (l *Ledger) GetOrCreate(address string) Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getOrCreateLocked(address).profile()
}

// RecordUnlock appends an unlock record and adds price to the wallet's
// total spend. Callers invoke this at most once per successful verification;
// use HasUnlocked to confirm the at-most-once property.
func (l *Ledger) RecordUnlock(address, contentID, transactionHash string, price *big.Int, referrer string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getOrCreateLocked(address)
	account.UnlockedContents = append(account.UnlockedContents, UnlockRecord{
		ContentID:       contentID,
		TransactionHash: transactionHash,
		Price:           price.String(),
		Referrer:        referrer,
		UnlockedAt:      time.Now().UTC(),
	})
	account.TotalSpent.Add(account.TotalSpent, price)
}

// RecordCreation appends contentID to the wallet's created list. No
// financial effect.
func (l *Ledger) RecordCreation(address, contentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getOrCreateLocked(address)
	account.CreatedContents = append(account.CreatedContents, contentID)
}

// RecordEarnings adds amount to the wallet's total earnings, and to its
// referral earnings as well when isReferral is set. The split itself was
// already computed by the settlement layer.
func (l *Ledger) RecordEarnings(address string, amount *big.Int, isReferral bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getOrCreateLocked(address)
	account.TotalEarned.Add(account.TotalEarned, amount)
	if isReferral {
		account.ReferralEarnings.Add(account.ReferralEarnings, amount)
	}
}

// UnlockedContents returns the wallet's unlock records.
func (l *Ledger) UnlockedContents(address string) []UnlockRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getOrCreateLocked(address)
	records := make([]UnlockRecord, len(account.UnlockedContents))
	copy(records, account.UnlockedContents)
	return records
}

// HasUnlocked reports whether the wallet already holds an unlock record for
// contentID.
func (l *Ledger) HasUnlocked(address, contentID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getOrCreateLocked(address)
	for _, record := range account.UnlockedContents {
		if record.ContentID == contentID {
			return true
		}
	}
	return false
}

// GetStats returns the derived summary for the wallet.
func (l *Ledger) GetStats(address string) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getOrCreateLocked(address)
	return Stats{
		TotalUnlocked:    len(account.UnlockedContents),
		TotalCreated:     len(account.CreatedContents),
		TotalSpent:       account.TotalSpent.String(),
		TotalEarned:      account.TotalEarned.String(),
		ReferralEarnings: account.ReferralEarnings.String(),
	}
}

func (a *Account) profile() Profile {
	records := make([]UnlockRecord, len(a.UnlockedContents))
	copy(records, a.UnlockedContents)
	created := make([]string, len(a.CreatedContents))
	copy(created, a.CreatedContents)
	return Profile{
		Address:          a.Address,
		UnlockedContents: records,
		CreatedContents:  created,
		TotalSpent:       a.TotalSpent.String(),
		TotalEarned:      a.TotalEarned.String(),
		ReferralEarnings: a.ReferralEarnings.String(),
	}
}
