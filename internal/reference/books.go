package reference

// Book maps an English book name to the key used by the local corpus.
type Book struct {
	Name     string
	Key      string
	Order    int
	Chapters int
}

// books lists the Protestant canon in order with the 개역개정 abbreviations
// used as corpus keys.
var books = []Book{
	{"Genesis", "창", 1, 50},
	{"Exodus", "출", 2, 40},
	{"Leviticus", "레", 3, 27},
	{"Numbers", "민", 4, 36},
	{"Deuteronomy", "신", 5, 34},
	{"Joshua", "수", 6, 24},
	{"Judges", "삿", 7, 21},
	{"Ruth", "룻", 8, 4},
	{"1 Samuel", "삼상", 9, 31},
	{"2 Samuel", "삼하", 10, 24},
	{"1 Kings", "왕상", 11, 22},
	{"2 Kings", "왕하", 12, 25},
	{"1 Chronicles", "대상", 13, 29},
	{"2 Chronicles", "대하", 14, 36},
	{"Ezra", "스", 15, 10},
	{"Nehemiah", "느", 16, 13},
	{"Esther", "에", 17, 10},
	{"Job", "욥", 18, 42},
	{"Psalms", "시", 19, 150},
	{"Proverbs", "잠", 20, 31},
	{"Ecclesiastes", "전", 21, 12},
	{"Song of Solomon", "아", 22, 8},
	{"Isaiah", "사", 23, 66},
	{"Jeremiah", "렘", 24, 52},
	{"Lamentations", "애", 25, 5},
	{"Ezekiel", "겔", 26, 48},
	{"Daniel", "단", 27, 12},
	{"Hosea", "호", 28, 14},
	{"Joel", "욜", 29, 3},
	{"Amos", "암", 30, 9},
	{"Obadiah", "옵", 31, 1},
	{"Jonah", "욘", 32, 4},
	{"Micah", "미", 33, 7},
	{"Nahum", "나", 34, 3},
	{"Habakkuk", "합", 35, 3},
	{"Zephaniah", "습", 36, 3},
	{"Haggai", "학", 37, 2},
	{"Zechariah", "슥", 38, 14},
	{"Malachi", "말", 39, 4},
	{"Matthew", "마", 40, 28},
	{"Mark", "막", 41, 16},
	{"Luke", "눅", 42, 24},
	{"John", "요", 43, 21},
	{"Acts", "행", 44, 28},
	{"Romans", "롬", 45, 16},
	{"1 Corinthians", "고전", 46, 16},
	{"2 Corinthians", "고후", 47, 13},
	{"Galatians", "갈", 48, 6},
	{"Ephesians", "엡", 49, 6},
	{"Philippians", "빌", 50, 4},
	{"Colossians", "골", 51, 4},
	{"1 Thessalonians", "살전", 52, 5},
	{"2 Thessalonians", "살후", 53, 3},
	{"1 Timothy", "딤전", 54, 6},
	{"2 Timothy", "딤후", 55, 4},
	{"Titus", "딛", 56, 3},
	{"Philemon", "몬", 57, 1},
	{"Hebrews", "히", 58, 13},
	{"James", "약", 59, 5},
	{"1 Peter", "벧전", 60, 5},
	{"2 Peter", "벧후", 61, 3},
	{"1 John", "요일", 62, 5},
	{"2 John", "요이", 63, 1},
	{"3 John", "요삼", 64, 1},
	{"Jude", "유", 65, 1},
	{"Revelation", "계", 66, 22},
}

var byName = func() map[string]Book {
	m := make(map[string]Book, len(books)+1)
	for _, b := range books {
		m[b.Name] = b
	}
	// Common alternate spelling.
	m["Psalm"] = m["Psalms"]
	return m
}()

// LookupBook resolves an English book name to its corpus entry.
func LookupBook(name string) (Book, bool) {
	b, ok := byName[name]
	return b, ok
}

// Books returns the canon in order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}
