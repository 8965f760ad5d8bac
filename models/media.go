package models

import (
	"slices"
	"sort"
	"strconv"
	"time"

	"pitlane/enums"

	"github.com/guregu/null/v6"
	"github.com/guregu/null/v6/zero"
	"gorm.io/gorm"
)

const (
	fileExtMP4  = "mp4"
	fileExtWebM = "webm"
	fileExtMP3  = "mp3"
	fileExtM4A  = "m4a"
	fileExtJPEG = "jpeg"
)

type Media struct {
	ID                uint           `json:"-"`
	CacheKey          string         `gorm:"size:191;index" json:"-"`
	ContentID         string         `gorm:"not null;index" json:"id"`
	ContentURL        string         `gorm:"not null" json:"webpage_url"`
	ExtractorCodeName string         `gorm:"not null;index" json:"extractor"`
	Title             string         `json:"title"`
	Description       zero.String    `json:"description"`
	Ext               string         `json:"ext"`
	Thumbnail         zero.String    `json:"thumbnail"`
	UploadDate        zero.String    `json:"upload_date"`
	UploaderID        zero.String    `json:"uploader_id"`
	Timestamp         null.Int       `json:"timestamp"`
	Duration          null.Float     `json:"duration"`
	Tags              []string       `gorm:"serializer:json" json:"tags"`
	Season            zero.String    `json:"season"`
	SeasonNumber      null.Int       `json:"season_number"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// formats carry signed urls, never stored. The cache keeps the
	// url and extractor that produced them instead.
	Formats          []*MediaFormat `gorm:"-" json:"formats,omitempty"`
	FormatsURL       string         `json:"-"`
	FormatsExtractor string         `json:"-"`
}

type MediaFormat struct {
	Type        enums.MediaType  `json:"type"`
	FormatID    string           `json:"format_id"`
	VideoCodec  enums.MediaCodec `json:"video_codec,omitempty"`
	AudioCodec  enums.MediaCodec `json:"audio_codec,omitempty"`
	Duration    int64            `json:"duration,omitempty"`
	Width       int64            `json:"width,omitempty"`
	Height      int64            `json:"height,omitempty"`
	Bitrate     int64            `json:"bitrate,omitempty"`
	FileSize    int64            `json:"filesize,omitempty"`
	IsDefault   bool             `json:"is_default,omitempty"`
	URL         []string         `json:"url"`
	Segments    []string         `json:"-"`
	InitSegment string           `json:"-"`
}

func (media *Media) SetDescription(description string) {
	if len(description) == 0 {
		return
	}
	media.Description = zero.StringFrom(description)
}

func (media *Media) SetThumbnail(thumbnail string) {
	if len(thumbnail) == 0 {
		return
	}
	media.Thumbnail = zero.StringFrom(thumbnail)
}

func (media *Media) SetSeason(number int64) {
	media.SeasonNumber = null.IntFrom(number)
	media.Season = zero.StringFrom("Season " + strconv.FormatInt(number, 10))
}

func (media *Media) AddFormat(format *MediaFormat) {
	media.Formats = append(media.Formats, format)
}

// MergeTransparent overlays the metadata found by a url_transparent
// extractor on top of the media resolved downstream. Every field set
// on outer wins; formats always come from the downstream media.
func (media *Media) MergeTransparent(outer *Media) {
	if outer == nil {
		return
	}
	if outer.ContentID != "" {
		media.ContentID = outer.ContentID
	}
	if outer.ContentURL != "" {
		media.ContentURL = outer.ContentURL
	}
	if outer.ExtractorCodeName != "" {
		media.ExtractorCodeName = outer.ExtractorCodeName
	}
	if outer.Title != "" {
		media.Title = outer.Title
	}
	if outer.Ext != "" {
		media.Ext = outer.Ext
	}
	if outer.Description.Valid && outer.Description.String != "" {
		media.Description = outer.Description
	}
	if outer.Thumbnail.Valid && outer.Thumbnail.String != "" {
		media.Thumbnail = outer.Thumbnail
	}
	if outer.UploadDate.Valid && outer.UploadDate.String != "" {
		media.UploadDate = outer.UploadDate
	}
	if outer.UploaderID.Valid && outer.UploaderID.String != "" {
		media.UploaderID = outer.UploaderID
	}
	if outer.Timestamp.Valid {
		media.Timestamp = outer.Timestamp
	}
	if outer.Duration.Valid {
		media.Duration = outer.Duration
	}
	if len(outer.Tags) > 0 {
		media.Tags = slices.Clone(outer.Tags)
	}
	if outer.Season.Valid && outer.Season.String != "" {
		media.Season = outer.Season
	}
	if outer.SeasonNumber.Valid {
		media.SeasonNumber = outer.SeasonNumber
	}
}

func (media *Media) GetDefaultFormat() *MediaFormat {
	format := media.GetDefaultVideoFormat()
	if format != nil {
		return format
	}
	return media.GetDefaultAudioFormat()
}

func (media *Media) GetDefaultVideoFormat() *MediaFormat {
	filtered := filterFormats(media.Formats, func(format *MediaFormat) bool {
		return format.VideoCodec == enums.MediaCodecAVC
	})
	if len(filtered) == 0 {
		filtered = filterFormats(media.Formats, func(format *MediaFormat) bool {
			return format.VideoCodec != ""
		})
	}
	if len(filtered) == 0 {
		return nil
	}
	slices.SortFunc(filtered, func(a, b *MediaFormat) int {
		if a.Bitrate != b.Bitrate {
			if a.Bitrate > b.Bitrate {
				return -1
			}
			return 1
		}
		if a.Height > b.Height {
			return -1
		} else if a.Height < b.Height {
			return 1
		}
		return 0
	})
	bestFormat := filtered[0]
	bestFormat.IsDefault = true
	return bestFormat
}

func (media *Media) GetDefaultAudioFormat() *MediaFormat {
	filtered := filterFormats(media.Formats, func(format *MediaFormat) bool {
		return format.VideoCodec == "" &&
			(format.AudioCodec == enums.MediaCodecAAC ||
				format.AudioCodec == enums.MediaCodecMP3)
	})
	if len(filtered) == 0 {
		filtered = filterFormats(media.Formats, func(format *MediaFormat) bool {
			return format.VideoCodec == "" && format.AudioCodec != ""
		})
	}
	if len(filtered) == 0 {
		return nil
	}
	bestFormat := filtered[0]
	for _, format := range filtered {
		if format.Bitrate > bestFormat.Bitrate {
			bestFormat = format
		}
	}
	bestFormat.IsDefault = true
	return bestFormat
}

// GetSortedFormats returns formats ordered video first, then audio,
// each group from the lowest to the highest quality.
func (media *Media) GetSortedFormats() []*MediaFormat {
	sorted := slices.Clone(media.Formats)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if cmp := getTypePriority(a.Type) - getTypePriority(b.Type); cmp != 0 {
			return cmp < 0
		}
		if a.Type == enums.MediaTypeVideo {
			if cmp := getCodecPriority(a.VideoCodec) - getCodecPriority(b.VideoCodec); cmp != 0 {
				return cmp < 0
			}
		} else if a.Type == enums.MediaTypeAudio {
			if cmp := getCodecPriority(a.AudioCodec) - getCodecPriority(b.AudioCodec); cmp != 0 {
				return cmp < 0
			}
		}
		if cmp := a.Height - b.Height; cmp != 0 {
			return cmp < 0
		}
		return a.Bitrate < b.Bitrate
	})
	return sorted
}

func filterFormats(
	formats []*MediaFormat,
	condition func(*MediaFormat) bool,
) []*MediaFormat {
	var filtered []*MediaFormat
	for _, format := range formats {
		if condition(format) {
			filtered = append(filtered, format)
		}
	}
	return filtered
}

func getCodecPriority(codec enums.MediaCodec) int64 {
	codecPriority := map[enums.MediaCodec]int64{
		enums.MediaCodecAVC:  1,
		enums.MediaCodecHEVC: 2,
		enums.MediaCodecMP3:  3,
		enums.MediaCodecAAC:  4,
	}
	if priority, ok := codecPriority[codec]; ok {
		return priority
	}
	return 5
}

func getTypePriority(mediaType enums.MediaType) int64 {
	typePriority := map[enums.MediaType]int64{
		enums.MediaTypeVideo: 1,
		enums.MediaTypeAudio: 2,
		enums.MediaTypePhoto: 3,
	}
	if priority, ok := typePriority[mediaType]; ok {
		return priority
	}
	return 4
}

// GetExtension returns the file extension the format would be saved with.
func (format *MediaFormat) GetExtension() string {
	if format.Type == enums.MediaTypePhoto {
		return fileExtJPEG
	}
	switch {
	case format.VideoCodec == enums.MediaCodecAVC,
		format.VideoCodec == enums.MediaCodecHEVC:
		return fileExtMP4
	case format.VideoCodec == "" && format.AudioCodec == enums.MediaCodecMP3:
		return fileExtMP3
	case format.VideoCodec == "" && format.AudioCodec == enums.MediaCodecAAC:
		return fileExtM4A
	default:
		return fileExtWebM
	}
}
