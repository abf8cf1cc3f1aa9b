package ledger

import (
	"time"

	"blockevent/internal/status"
)

// The reward token ledger. Minting is a capability of the engines in
// this package: nothing outside can create supply, matching the
// single-authorized-minter design.

// creditReward mints reward tokens, enforcing the supply cap. Every
// mint refreshes the holder's activity clock.
func (l *Ledger) creditReward(to Identity, amount uint64, now time.Time) error {
	if amount == 0 {
		return nil
	}
	supply, ok := addU64(l.st.tokenSupply, amount)
	if !ok || supply > l.pol.MaxSupply {
		return status.ErrSupplyCapExceeded
	}

	acct := l.rewardAccount(to)
	bal, ok := addU64(acct.Balance, amount)
	if !ok {
		return status.ErrSupplyCapExceeded
	}

	l.st.tokenSupply = supply
	acct.Balance = bal
	acct.LastActivity = now

	l.emit(TokensMinted{To: to, Amount: amount})
	return nil
}

// mintable reports whether amount can be minted without breaching the
// cap. Used to validate a whole transition before mutating anything.
func (l *Ledger) mintable(amount uint64) bool {
	supply, ok := addU64(l.st.tokenSupply, amount)
	return ok && supply <= l.pol.MaxSupply
}

func (l *Ledger) rewardAccount(holder Identity) *RewardAccount {
	acct, ok := l.st.rewards[holder]
	if !ok {
		acct = &RewardAccount{}
		l.st.rewards[holder] = acct
	}
	return acct
}

// touchActivity refreshes the decay clock on a qualifying spend or vote.
func (l *Ledger) touchActivity(holder Identity, now time.Time) {
	l.rewardAccount(holder).LastActivity = now
}

// BurnInactiveTokens decays the balance of a holder that has been idle
// past the inactivity window. Public maintenance: anyone may call it
// for any holder. Within the window it is a no-op. Returns the amount
// burned.
func (l *Ledger) BurnInactiveTokens(holder Identity, now time.Time) uint64 {
	acct, ok := l.st.rewards[holder]
	if !ok || acct.Balance == 0 {
		return 0
	}
	if now.Sub(acct.LastActivity) <= l.pol.InactivityWindow {
		return 0
	}

	burned := pctOf(acct.Balance, l.pol.DecayPercentage)
	acct.Balance -= burned
	l.st.tokenSupply -= burned
	acct.LastActivity = now

	if burned > 0 {
		l.emit(TokensBurned{Holder: holder, Amount: burned})
	}
	return burned
}

// RewardBalanceOf returns a holder's reward token balance.
func (l *Ledger) RewardBalanceOf(holder Identity) uint64 {
	if acct, ok := l.st.rewards[holder]; ok {
		return acct.Balance
	}
	return 0
}

// TokenSupply returns the aggregate minted supply.
func (l *Ledger) TokenSupply() uint64 { return l.st.tokenSupply }

// LastActivityOf returns the holder's activity timestamp, zero if the
// holder has no reward account.
func (l *Ledger) LastActivityOf(holder Identity) time.Time {
	if acct, ok := l.st.rewards[holder]; ok {
		return acct.LastActivity
	}
	return time.Time{}
}
