package domain

import "time"

// Verse is a single ayah within a surah.
type Verse struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Surah carries the canonical Arabic text for one chapter (1-114).
type Surah struct {
	Number         int       `json:"number"`
	NameArabic     string    `json:"name_arabic"`
	NameEnglish    string    `json:"name_english"`
	RevelationType string    `json:"revelation_type"`
	VerseCount     int       `json:"verse_count"`
	Verses         []Verse   `json:"verses"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Reciter describes an audio reciter available for playback.
type Reciter struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Style     string `json:"style"`
	Language  string `json:"language"`
	AudioBase string `json:"audio_base"`
}

// Translation describes a published translation of the Quran text.
type Translation struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Language   string `json:"language"`
	Translator string `json:"translator"`
}

// Bookmark marks a verse a user saved for later reading.
type Bookmark struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SurahNumber int       `json:"surah_number"`
	VerseNumber int       `json:"verse_number"`
	Label       string    `json:"label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
