/*
Package utils contains decorators shared by every extension of the ledger:
Savepoint makes a transaction an all-or-nothing unit of work, Recovery turns
panics into errors, Logging reports every processed transaction and
ActionTagger tags delivered transactions with their message path.
*/
package utils
