/*
Package operation runs a rule set against target files and reports the result.

	+-----------+     +-----------+     +-----------+
	|   plan    | --> |  commit   | --> |  Summary  |
	| read+patch|     | lock+write|     |  + Log    |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Reads every target and applies the rules in memory before writing anything
- Writes only files where at least one rule applied
- Maps the run to an Outcome and a process exit code

🔄 Flow:
1. Plan: each target is read through files.FileManager and patched by a
   patch.Applier. A missing or unreadable file aborts the run here.
2. Commit: each changed file is locked, re-read, optionally backed up and
   written atomically. A file that changed since planning is patched again
   from its current content.
3. The Summary is logged once, after all files are done, so concurrent runs
   do not interleave console output.

⚡ Outcomes:
- OutcomeApplied: some rule applied to some file (exit 0)
- OutcomeNoOp: nothing matched, nothing was written (exit 1)
- OutcomeError: configuration or I/O failure (exit 2)
*/
package operation
