package storage

const schema = `
-- The 'quiz_sessions' table tracks progress through one generated quiz.
CREATE TABLE IF NOT EXISTS quiz_sessions (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL DEFAULT 0,
    score INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL,
    created_at DATETIME NOT NULL
);

-- The 'quiz_questions' table stores the questions of a session in the order they are asked.
CREATE TABLE IF NOT EXISTS quiz_questions (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    hash TEXT NOT NULL,
    prompt TEXT NOT NULL,
    options TEXT NOT NULL, -- JSON array
    answer TEXT NOT NULL,

    PRIMARY KEY (session_id, position),
    FOREIGN KEY(session_id) REFERENCES quiz_sessions(id) ON DELETE CASCADE
);

-- The 'quiz_answers' table records every submitted choice.
CREATE TABLE IF NOT EXISTS quiz_answers (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    choice TEXT NOT NULL,
    correct INTEGER NOT NULL,
    answered_at DATETIME NOT NULL,

    PRIMARY KEY (session_id, position),
    FOREIGN KEY(session_id) REFERENCES quiz_sessions(id) ON DELETE CASCADE
);
`
