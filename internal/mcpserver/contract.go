package mcpserver

// SearchRules explains to LLM consumers how find_notes matches notes.
const SearchRules = `# Notebook search rules

find_notes matches whole words only.

1. Each note's contents are lowercased and split into words. A word is a run
   of letters, digits or underscores; anything else separates words,
   combining marks and punctuation included, so "It's Friday!" becomes:
   it, s, friday.
2. The term is NOT lowercased. Pass lowercase terms: "friday" matches,
   "Friday" matches nothing.
3. There is no partial matching, stemming or ranking: "fri" does not match
   "friday" and "exam" does not match "exams".
4. Results are note names in listing order. No match returns an empty list.
`
