package store

// Schema DDL. Foreign keys are declared for documentation only: SQLite does
// not enforce them unless PRAGMA foreign_keys is enabled, and quotes of
// unknown authors carry author_id -1.
const (
	createAuthors = `CREATE TABLE IF NOT EXISTS authors (
    auth_id INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    birthday DATE,
    birthplace VARCHAR(255),
    description TEXT
);`

	createQuotes = `CREATE TABLE IF NOT EXISTS quotes (
    id INTEGER PRIMARY KEY,
    author_id INTEGER,
    quote TEXT NOT NULL,
    FOREIGN KEY (author_id) REFERENCES authors(auth_id)
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags (
    tag_id INTEGER PRIMARY KEY,
    tag VARCHAR(255) NOT NULL
);`

	createTaggedQuotes = `CREATE TABLE IF NOT EXISTS tagged_quotes (
    tag_q_id INTEGER PRIMARY KEY,
    tag_id INTEGER,
    quote_id INTEGER,
    FOREIGN KEY (tag_id) REFERENCES tags(tag_id),
    FOREIGN KEY (quote_id) REFERENCES quotes(id)
);`
)

// schemaStatements lists the DDL in creation order
var schemaStatements = []string{
	createAuthors,
	createQuotes,
	createTags,
	createTaggedQuotes,
}

const (
	insertAuthor      = `INSERT INTO authors (name, birthday, birthplace, description) VALUES (?, ?, ?, ?)`
	insertQuote       = `INSERT INTO quotes (id, author_id, quote) VALUES (?, ?, ?)`
	insertTag         = `INSERT INTO tags (tag_id, tag) VALUES (?, ?)`
	insertTaggedQuote = `INSERT INTO tagged_quotes (tag_id, quote_id) VALUES (?, ?)`

	selectAuthorIDs = `SELECT auth_id, name FROM authors ORDER BY auth_id`

	selectQuotesByTag = `SELECT q.quote
FROM quotes AS q, tagged_quotes AS tq, tags AS t
WHERE tq.tag_id = t.tag_id
AND t.tag = ?
AND q.id = tq.quote_id
ORDER BY q.id, tq.tag_q_id`

	selectQuoteViews = `SELECT q.id, q.quote, COALESCE(a.name, ''),
    COALESCE((SELECT group_concat(tag, char(31)) FROM (
        SELECT t.tag AS tag FROM tagged_quotes AS tq
        JOIN tags AS t ON t.tag_id = tq.tag_id
        WHERE tq.quote_id = q.id
        ORDER BY tq.tag_q_id
    )), '')
FROM quotes AS q
LEFT JOIN authors AS a ON a.auth_id = q.author_id
ORDER BY q.id`
)
