/*
Package token implements the token program of the ledger.

A Mint describes a kind of asset: its decimals, its total supply and the
authority allowed to issue more of it. A TokenAccount holds a balance of a
single mint on behalf of an owner, the only authority that can move funds
out of the account or close it. Every address has a native Wallet holding
lamports, which pay the rent that keeps mints and accounts alive. The rent is
returned when an account is closed.

The associated token account of an owner for a mint lives at a program
derived address, so that anyone can find it, and create it if needed,
knowing only the owner and the mint.
*/
package token
