/*
Package pricefeed implements a price feed contract used by FundMe on local and
test networks.

The contract follows the read interface of price aggregators: every report
starts a new round holding the answer (price of one GAS in USD with
Decimals precision) and timestamps. Live networks use externally maintained
aggregators with the same methods, so FundMe does not depend on this
implementation.

# Contract notifications

AnswerUpdated notification. This notification is produced when the feed owner
reports a new price.

	AnswerUpdated:
	  - name: answer
	    type: Integer
	  - name: roundId
	    type: Integer
	  - name: updatedAt
	    type: Integer
*/
package pricefeed

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'o' -> interop.Hash160
    feed owner allowed to report prices
  - 'd' -> int
    decimals of the reported answers
  - 'r' -> int
    identifier of the latest round
  - 'a'<roundID> -> std.Serialize(RoundData)
    reported rounds
*/
