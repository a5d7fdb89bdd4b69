package myanonamouse

import "github.com/MrSnakeDoc/sift/internal/category"

var categories = []category.Entry{
	{NativeID: "13", Label: "AudioBooks", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "14", Label: "E-Books", Canonical: []int{category.BooksEBook}},
	{NativeID: "15", Label: "Musicology", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "16", Label: "Radio", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "39", Label: "Audiobooks - Action/Adventure", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "49", Label: "Audiobooks - Art", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "50", Label: "Audiobooks - Biographical", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "83", Label: "Audiobooks - Business", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "51", Label: "Audiobooks - Computer/Internet", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "97", Label: "Audiobooks - Crafts", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "40", Label: "Audiobooks - Crime/Thriller", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "41", Label: "Audiobooks - Fantasy", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "106", Label: "Audiobooks - Food", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "42", Label: "Audiobooks - General Fiction", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "52", Label: "Audiobooks - General Non-Fic", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "98", Label: "Audiobooks - Historical Fiction", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "54", Label: "Audiobooks - History", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "55", Label: "Audiobooks - Home/Garden", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "43", Label: "Audiobooks - Horror", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "99", Label: "Audiobooks - Humor", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "84", Label: "Audiobooks - Instructional", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "44", Label: "Audiobooks - Juvenile", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "56", Label: "Audiobooks - Language", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "45", Label: "Audiobooks - Literary Classics", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "57", Label: "Audiobooks - Math/Science/Tech", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "85", Label: "Audiobooks - Medical", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "87", Label: "Audiobooks - Mystery", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "119", Label: "Audiobooks - Nature", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "88", Label: "Audiobooks - Philosophy", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "58", Label: "Audiobooks - Pol/Soc/Relig", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "59", Label: "Audiobooks - Recreation", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "46", Label: "Audiobooks - Romance", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "47", Label: "Audiobooks - Science Fiction", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "53", Label: "Audiobooks - Self-Help", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "89", Label: "Audiobooks - Travel/Adventure", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "100", Label: "Audiobooks - True Crime", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "108", Label: "Audiobooks - Urban Fantasy", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "48", Label: "Audiobooks - Western", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "111", Label: "Audiobooks - Young Adult", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "60", Label: "Ebooks - Action/Adventure", Canonical: []int{category.BooksEBook}},
	{NativeID: "71", Label: "Ebooks - Art", Canonical: []int{category.BooksEBook}},
	{NativeID: "72", Label: "Ebooks - Biographical", Canonical: []int{category.BooksEBook}},
	{NativeID: "90", Label: "Ebooks - Business", Canonical: []int{category.BooksEBook}},
	{NativeID: "61", Label: "Ebooks - Comics/Graphic novels", Canonical: []int{category.BooksComics}},
	{NativeID: "73", Label: "Ebooks - Computer/Internet", Canonical: []int{category.BooksEBook}},
	{NativeID: "101", Label: "Ebooks - Crafts", Canonical: []int{category.BooksEBook}},
	{NativeID: "62", Label: "Ebooks - Crime/Thriller", Canonical: []int{category.BooksEBook}},
	{NativeID: "63", Label: "Ebooks - Fantasy", Canonical: []int{category.BooksEBook}},
	{NativeID: "107", Label: "Ebooks - Food", Canonical: []int{category.BooksEBook}},
	{NativeID: "64", Label: "Ebooks - General Fiction", Canonical: []int{category.BooksEBook}},
	{NativeID: "74", Label: "Ebooks - General Non-Fiction", Canonical: []int{category.BooksEBook}},
	{NativeID: "102", Label: "Ebooks - Historical Fiction", Canonical: []int{category.BooksEBook}},
	{NativeID: "76", Label: "Ebooks - History", Canonical: []int{category.BooksEBook}},
	{NativeID: "77", Label: "Ebooks - Home/Garden", Canonical: []int{category.BooksEBook}},
	{NativeID: "65", Label: "Ebooks - Horror", Canonical: []int{category.BooksEBook}},
	{NativeID: "103", Label: "Ebooks - Humor", Canonical: []int{category.BooksEBook}},
	{NativeID: "115", Label: "Ebooks - Illusion/Magic", Canonical: []int{category.BooksEBook}},
	{NativeID: "91", Label: "Ebooks - Instructional", Canonical: []int{category.BooksEBook}},
	{NativeID: "66", Label: "Ebooks - Juvenile", Canonical: []int{category.BooksEBook}},
	{NativeID: "78", Label: "Ebooks - Language", Canonical: []int{category.BooksEBook}},
	{NativeID: "67", Label: "Ebooks - Literary Classics", Canonical: []int{category.BooksEBook}},
	{NativeID: "79", Label: "Ebooks - Magazines/Newspapers", Canonical: []int{category.BooksMags}},
	{NativeID: "80", Label: "Ebooks - Math/Science/Tech", Canonical: []int{category.BooksTechnical}},
	{NativeID: "92", Label: "Ebooks - Medical", Canonical: []int{category.BooksEBook}},
	{NativeID: "118", Label: "Ebooks - Mixed Collections", Canonical: []int{category.BooksEBook}},
	{NativeID: "94", Label: "Ebooks - Mystery", Canonical: []int{category.BooksEBook}},
	{NativeID: "120", Label: "Ebooks - Nature", Canonical: []int{category.BooksEBook}},
	{NativeID: "95", Label: "Ebooks - Philosophy", Canonical: []int{category.BooksEBook}},
	{NativeID: "81", Label: "Ebooks - Pol/Soc/Relig", Canonical: []int{category.BooksEBook}},
	{NativeID: "82", Label: "Ebooks - Recreation", Canonical: []int{category.BooksEBook}},
	{NativeID: "68", Label: "Ebooks - Romance", Canonical: []int{category.BooksEBook}},
	{NativeID: "69", Label: "Ebooks - Science Fiction", Canonical: []int{category.BooksEBook}},
	{NativeID: "75", Label: "Ebooks - Self-Help", Canonical: []int{category.BooksEBook}},
	{NativeID: "96", Label: "Ebooks - Travel/Adventure", Canonical: []int{category.BooksEBook}},
	{NativeID: "104", Label: "Ebooks - True Crime", Canonical: []int{category.BooksEBook}},
	{NativeID: "109", Label: "Ebooks - Urban Fantasy", Canonical: []int{category.BooksEBook}},
	{NativeID: "70", Label: "Ebooks - Western", Canonical: []int{category.BooksEBook}},
	{NativeID: "112", Label: "Ebooks - Young Adult", Canonical: []int{category.BooksEBook}},
	{NativeID: "19", Label: "Guitar/Bass Tabs", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "20", Label: "Individual Sheet", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "24", Label: "Individual Sheet MP3", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "126", Label: "Instructional Book with Video", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "22", Label: "Instructional Media - Music", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "113", Label: "Lick Library - LTP/Jam With", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "114", Label: "Lick Library - Techniques/QL", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "17", Label: "Music - Complete Editions", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "26", Label: "Music Book", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "27", Label: "Music Book MP3", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "30", Label: "Sheet Collection", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "31", Label: "Sheet Collection MP3", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "127", Label: "Radio - Comedy", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "130", Label: "Radio - Drama", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "128", Label: "Radio - Factual/Documentary", Canonical: []int{category.AudioAudiobook}},
	{NativeID: "132", Label: "Radio - Reading", Canonical: []int{category.AudioAudiobook}},
}
