/*
Package batch drives a list of move directives to completion.

	+-------------+     +-----------+     +----------+
	|  directives | --> |   Pair    | --> |   Run    |
	| (flat list) |     | (src,tgt) |     | (ordered)|
	+-------------+     +-----------+     +----+-----+
	                                           |
	                          +----------------+----------------+
	                          |                                 |
	                    +-----+------+                    +-----+-----+
	                    |  Executor  |                    |   Sink    |
	                    | (one move) |                    | (failures)|
	                    +------------+                    +-----------+

🎯 Purpose:
- Pairs the flat source/target list produced by the directive extractor
- Qualifies every path with the extended-length marker before moving
- Moves strictly in list order; a later directive may rely on directories
  created by an earlier one

⚡ Failure policy:
- A failed move is recorded in the Sink and the batch continues
- An odd-length list aborts the batch before any move is attempted
- A clean run leaves no log artifact behind

🔍 Example:

	orch := batch.New(mover, norm, sink, batch.WithObserver(progress))
	report, err := orch.Run(ctx, entries)
	os.Exit(report.ExitCode())
*/
package batch
