/*
Package escrow implements a two party token swap.

The maker opens an escrow by depositing an amount of tokens of mint A into a
vault and declaring how many tokens of mint B it wants in return. The vault
is a token account owned by the escrow record address. That address is
program derived from the maker address and a seed, so no private key exists
for it and only this extension can move the vault funds.

Any taker can settle the escrow by sending the requested amount of mint B
tokens to the maker. In the same transaction the whole vault balance is sent
to the taker. Until then the maker can cancel the escrow and get the deposit
back. Both settle and cancel close the vault and the record, and the locked
rent returns to the maker.
*/
package escrow
