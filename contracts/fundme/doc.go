/*
Package fundme implements FundMe contract, a minimal crowdfunding ledger.

FundMe accepts GAS contributions and keeps cumulative contribution of every
contributor together with the list of contributors in the order of their
first contributions. Contribution is accepted only if its value converted to
USD with the price reported by the price feed contract is not less than 50 USD.
The price feed address is set on deployment and never changes.

The owner (sender of the deploying transaction unless specified explicitly)
is the only account that can withdraw funds. Withdrawal transfers all GAS held
by the contract to the owner and resets the ledger: every contribution becomes
zero and the contributor list becomes empty. The ledger is reset before the
transfer, so the receiving contract can't observe stale contributions, and any
failure of the transfer aborts the whole transaction.

Contributions are made by GAS transfers to the contract address (see
OnNEP17Payment) or with Fund method. Tokens other than GAS are rejected.

# Contract notifications

Funded notification. This notification is produced when contribution is
accepted. Total is the cumulative contribution of the sender.

	Funded:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: total
	    type: Integer

Withdrawn notification. This notification is produced when the owner withdraws
funds. It is thrown before the actual transfer.

	Withdrawn:
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: contributors
	    type: Integer
*/
package fundme

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'o' -> interop.Hash160
    owner of the contract
  - 'p' -> interop.Hash160
    price feed contract address
  - 'f' -> std.Serialize([]interop.Hash160)
    contributors in the order of the first contribution
  - 'c'<interop.Hash160> -> int
    cumulative contribution of the account in GAS fractions

# Accounting
Sum of all contributions equals GAS balance of the contract. Contributions and
the contributor list are deleted on withdrawal.
*/
