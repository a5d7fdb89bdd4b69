package category

// Category is one node of the canonical newznab taxonomy.
// Parents are whole thousands (2000 Movies), children refine them (2040 Movies/HD).
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Parent returns the parent id (the category itself for top-level ids).
func (c Category) Parent() int {
	return ParentOf(c.ID)
}

// IsParent reports whether the category is a top-level bucket.
func (c Category) IsParent() bool {
	return c.ID%1000 == 0
}

// ParentOf returns the top-level bucket of a canonical id.
func ParentOf(id int) int {
	return id - id%1000
}

// Canonical ids. Names follow the newznab standard list.
const (
	Console             = 1000
	ConsoleNDS          = 1010
	ConsolePSP          = 1020
	ConsoleWii          = 1030
	ConsoleXBox         = 1040
	ConsoleXBox360      = 1050
	ConsoleWiiware      = 1060
	ConsoleXBox360DLC   = 1070
	ConsolePS3          = 1080
	ConsoleOther        = 1090
	Console3DS          = 1110
	ConsolePSVita       = 1120
	ConsoleWiiU         = 1130
	ConsoleXBoxOne      = 1140
	ConsolePS4          = 1180
	Movies              = 2000
	MoviesForeign       = 2010
	MoviesOther         = 2020
	MoviesSD            = 2030
	MoviesHD            = 2040
	MoviesUHD           = 2045
	MoviesBluRay        = 2050
	Movies3D            = 2060
	MoviesDVD           = 2070
	MoviesWEBDL         = 2080
	Audio               = 3000
	AudioMP3            = 3010
	AudioVideo          = 3020
	AudioAudiobook      = 3030
	AudioLossless       = 3040
	AudioOther          = 3050
	AudioForeign        = 3060
	PC                  = 4000
	PC0day              = 4010
	PCISO               = 4020
	PCMac               = 4030
	PCMobileOther       = 4040
	PCGames             = 4050
	PCMobileIOS         = 4060
	PCMobileAndroid     = 4070
	TV                  = 5000
	TVWEBDL             = 5010
	TVForeign           = 5020
	TVSD                = 5030
	TVHD                = 5040
	TVUHD               = 5045
	TVOther             = 5050
	TVSport             = 5060
	TVAnime             = 5070
	TVDocumentary       = 5080
	XXX                 = 6000
	XXXDVD              = 6010
	XXXWMV              = 6020
	XXXXviD             = 6030
	XXXx264             = 6040
	XXXUHD              = 6045
	XXXPack             = 6050
	XXXImageSet         = 6060
	XXXOther            = 6070
	XXXSD               = 6080
	XXXWEBDL            = 6090
	Books               = 7000
	BooksMags           = 7010
	BooksEBook          = 7020
	BooksComics         = 7030
	BooksTechnical      = 7040
	BooksOther          = 7050
	BooksForeign        = 7060
	Other               = 8000
	OtherMisc           = 8010
	OtherHashed         = 8020
	DefaultFallbackID   = Other
	customCategoryFloor = 100000
)

var standard = []Category{
	{Console, "Console"},
	{ConsoleNDS, "Console/NDS"},
	{ConsolePSP, "Console/PSP"},
	{ConsoleWii, "Console/Wii"},
	{ConsoleXBox, "Console/XBox"},
	{ConsoleXBox360, "Console/XBox 360"},
	{ConsoleWiiware, "Console/Wiiware"},
	{ConsoleXBox360DLC, "Console/XBox 360 DLC"},
	{ConsolePS3, "Console/PS3"},
	{ConsoleOther, "Console/Other"},
	{Console3DS, "Console/3DS"},
	{ConsolePSVita, "Console/PS Vita"},
	{ConsoleWiiU, "Console/WiiU"},
	{ConsoleXBoxOne, "Console/XBox One"},
	{ConsolePS4, "Console/PS4"},
	{Movies, "Movies"},
	{MoviesForeign, "Movies/Foreign"},
	{MoviesOther, "Movies/Other"},
	{MoviesSD, "Movies/SD"},
	{MoviesHD, "Movies/HD"},
	{MoviesUHD, "Movies/UHD"},
	{MoviesBluRay, "Movies/BluRay"},
	{Movies3D, "Movies/3D"},
	{MoviesDVD, "Movies/DVD"},
	{MoviesWEBDL, "Movies/WEB-DL"},
	{Audio, "Audio"},
	{AudioMP3, "Audio/MP3"},
	{AudioVideo, "Audio/Video"},
	{AudioAudiobook, "Audio/Audiobook"},
	{AudioLossless, "Audio/Lossless"},
	{AudioOther, "Audio/Other"},
	{AudioForeign, "Audio/Foreign"},
	{PC, "PC"},
	{PC0day, "PC/0day"},
	{PCISO, "PC/ISO"},
	{PCMac, "PC/Mac"},
	{PCMobileOther, "PC/Mobile-Other"},
	{PCGames, "PC/Games"},
	{PCMobileIOS, "PC/Mobile-iOS"},
	{PCMobileAndroid, "PC/Mobile-Android"},
	{TV, "TV"},
	{TVWEBDL, "TV/WEB-DL"},
	{TVForeign, "TV/Foreign"},
	{TVSD, "TV/SD"},
	{TVHD, "TV/HD"},
	{TVUHD, "TV/UHD"},
	{TVOther, "TV/Other"},
	{TVSport, "TV/Sport"},
	{TVAnime, "TV/Anime"},
	{TVDocumentary, "TV/Documentary"},
	{XXX, "XXX"},
	{XXXDVD, "XXX/DVD"},
	{XXXWMV, "XXX/WMV"},
	{XXXXviD, "XXX/XviD"},
	{XXXx264, "XXX/x264"},
	{XXXUHD, "XXX/UHD"},
	{XXXPack, "XXX/Pack"},
	{XXXImageSet, "XXX/ImageSet"},
	{XXXOther, "XXX/Other"},
	{XXXSD, "XXX/SD"},
	{XXXWEBDL, "XXX/WEB-DL"},
	{Books, "Books"},
	{BooksMags, "Books/Mags"},
	{BooksEBook, "Books/EBook"},
	{BooksComics, "Books/Comics"},
	{BooksTechnical, "Books/Technical"},
	{BooksOther, "Books/Other"},
	{BooksForeign, "Books/Foreign"},
	{Other, "Other"},
	{OtherMisc, "Other/Misc"},
	{OtherHashed, "Other/Hashed"},
}

var byID = func() map[int]Category {
	m := make(map[int]Category, len(standard))
	for _, c := range standard {
		m[c.ID] = c
	}
	return m
}()

// Lookup returns the standard category for id.
func Lookup(id int) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}

// Standard returns a copy of the full taxonomy in id order.
func Standard() []Category {
	out := make([]Category, len(standard))
	copy(out, standard)
	return out
}

// IsCustom reports whether id lives in the indexer-specific range (>= 100000).
func IsCustom(id int) bool {
	return id >= customCategoryFloor
}
