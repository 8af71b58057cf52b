/*
Package config loads rule files for patchrc.

	            +-------------+
	            |   RuleSet   |
	            | (rules +    |
	            |  targets)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Keeps the text to find and the text to insert out of code
- Validates a rule set before anything is matched
- Compiles rule definitions into patch.Rule values

🔄 Flow:
1. Reads the rule file
2. Picks a parser by extension
3. Validates names, matchers and targets
4. Compile hands the rules to the engine

📝 YAML rule file:

	name: interview-safety
	targets:
	  - src/components/InterviewScreen.tsx
	rules:
	  - name: rewire_end_button
	    description: Route the End Interview button through handleManualEnd
	    literal: onClick={() => handleEndSession(false, "Terminated by candidate")}
	    replace: onClick={handleManualEnd}

Use |- block scalars for multi-line text: | keeps a trailing newline.
Pattern rules use pattern instead of literal and may refer to captures in
replace as $1, ${1} or ${name}; a literal $ in a pattern replacement is $$.
*/
package config
