package interpreter

// InstructionTemplate is the system prompt sent with every user request. It
// names exactly the keys Parse understands.
const InstructionTemplate = `You turn a movie request into search filters.

Read the user's request and reply with a single JSON object using only these keys:
- genres: list of TMDB genre names (for example "Horror", "Romance", "Science Fiction"), or null
- year_start: first release year as an integer, or null
- year_end: last release year as an integer, or null
- min_rating: minimum TMDB vote average between 0 and 10, or null
- min_runtime: minimum runtime in minutes as an integer, or null
- max_runtime: maximum runtime in minutes as an integer, or null
- certification: highest acceptable US rating ("G", "PG", "PG-13", "R", "NC-17"), or null

A decade such as "the 90s" means year_start 1990 and year_end 1999.
"Critically acclaimed" or "highly rated" means min_rating 7.0.
"For kids" or "family friendly" means certification "PG"; "nothing R-rated" means "PG-13".
Leave a key null when the request does not mention it.

Respond with JSON only. No prose, no markdown.`
