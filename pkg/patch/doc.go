/*
Package patch applies ordered sets of named text rewrites to a buffer.

	+------------+      +-----------+      +-------------+
	|  Rule set  | ---> |  Engine   | ---> |   Result    |
	| (ordered)  |      | (working  |      | (applied /  |
	+------------+      |   text)   |      |  unapplied) |
	                    +-----------+      +-------------+

🎯 Purpose:
- Rewrites a text buffer with a list of rules, each applied at most once
- Reports per rule whether it applied, how many times its matcher matched
  and where
- Leaves the buffer byte-identical when nothing applied

🔄 Flow:
1. Rule names are checked for uniqueness before anything is matched
2. Each rule searches the working text left by the rules before it
3. Found: the first occurrence is rewritten and the rule is recorded as applied
4. Not found: the rule is recorded as unapplied and the run continues

🧩 Matchers:
- Literal: exact substring, replacement inserted verbatim
- Pattern: RE2 expression, replacement expanded with $1, ${1} or ${name}

↩️ Line endings:
Rule text is written with "\n". The engine detects whether the input is CRLF
and converts literal matchers and replacements to match, so patched files keep
their convention. Nothing outside a rewritten span is touched.

♻️ Idempotence:
A well-formed rule set is a no-op on its own output: every matcher must stop
matching once its rewrite is in place. Engine.CheckIdempotent verifies this
for a given input.

🔍 Example:

	result, err := patch.Apply(text, []patch.Rule{
		patch.LiteralRule("add_y", "const x = 1;\nfoo();", "const x = 1;\nconst y = 2;\nfoo();"),
	})
	if err != nil {
		return err // duplicate or malformed rules
	}
	if !result.Changed {
		// no-op run
	}
*/
package patch
