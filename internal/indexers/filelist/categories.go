package filelist

import "github.com/MrSnakeDoc/sift/internal/category"

// The API reports categories by label, requests filter by id.
var categories = []category.Entry{
	{NativeID: "1", Label: "Filme SD", Canonical: []int{category.MoviesSD}},
	{NativeID: "2", Label: "Filme DVD", Canonical: []int{category.MoviesDVD}},
	{NativeID: "3", Label: "Filme DVD-RO", Canonical: []int{category.MoviesForeign}},
	{NativeID: "4", Label: "Filme HD", Canonical: []int{category.MoviesHD}},
	{NativeID: "5", Label: "FLAC", Canonical: []int{category.AudioLossless}},
	{NativeID: "6", Label: "Filme 4K", Canonical: []int{category.MoviesUHD}},
	{NativeID: "7", Label: "XXX", Canonical: []int{category.XXX}},
	{NativeID: "8", Label: "Programe", Canonical: []int{category.PC}},
	{NativeID: "9", Label: "Jocuri PC", Canonical: []int{category.PCGames}},
	{NativeID: "10", Label: "Jocuri Console", Canonical: []int{category.Console}},
	{NativeID: "11", Label: "Audio", Canonical: []int{category.Audio}},
	{NativeID: "12", Label: "Videoclip", Canonical: []int{category.AudioVideo}},
	{NativeID: "13", Label: "Sport", Canonical: []int{category.TVSport}},
	{NativeID: "15", Label: "Desene", Canonical: []int{category.TV}},
	{NativeID: "16", Label: "Docs", Canonical: []int{category.TVDocumentary}},
	{NativeID: "17", Label: "Linux", Canonical: []int{category.PC}},
	{NativeID: "18", Label: "Diverse", Canonical: []int{category.Other}},
	{NativeID: "19", Label: "Filme HD-RO", Canonical: []int{category.MoviesForeign}},
	{NativeID: "20", Label: "Filme Blu-Ray", Canonical: []int{category.MoviesBluRay}},
	{NativeID: "21", Label: "Seriale HD", Canonical: []int{category.TVHD}},
	{NativeID: "22", Label: "Mobile", Canonical: []int{category.PCMobileOther}},
	{NativeID: "23", Label: "Seriale SD", Canonical: []int{category.TVSD}},
	{NativeID: "24", Label: "Anime", Canonical: []int{category.TVAnime}},
	{NativeID: "25", Label: "Filme 3D", Canonical: []int{category.Movies3D}},
	{NativeID: "26", Label: "Filme 4K Blu-Ray", Canonical: []int{category.MoviesBluRay, category.MoviesUHD}},
	{NativeID: "27", Label: "Seriale 4K", Canonical: []int{category.TVUHD}},
	{NativeID: "28", Label: "RO Dubbed", Canonical: []int{category.MoviesForeign, category.TVForeign}},
}
