package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"pitlane/config"
	"pitlane/database"
	"pitlane/enums"
	"pitlane/ext"
	"pitlane/models"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
)

type videoOutput struct {
	Type enums.ResultType `json:"_type"`
	*models.Media
}

type playlistOutput struct {
	Type enums.ResultType `json:"_type"`
	*models.Playlist
}

type transparentOutput struct {
	Type enums.ResultType `json:"_type"`
	*models.Media
	URL   string `json:"url"`
	IEKey string `json:"ie_key,omitempty"`
}

// PrintResponse writes one JSON document per response.
func PrintResponse(out io.Writer, response *models.ExtractorResponse) error {
	var value any
	switch response.Type {
	case enums.ResultTypeVideo:
		value = videoOutput{Type: response.Type, Media: firstMedia(response)}
	case enums.ResultTypePlaylist:
		value = playlistOutput{Type: response.Type, Playlist: response.Playlist}
	default:
		value = transparentOutput{
			Type:  response.Type,
			Media: firstMedia(response),
			URL:   response.URL,
			IEKey: response.IEKey,
		}
	}
	data, err := sonic.ConfigStd.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func PrintFormats(out io.Writer, response *models.ExtractorResponse) error {
	var mediaList []*models.Media
	switch response.Type {
	case enums.ResultTypePlaylist:
		for _, entry := range response.Playlist.Entries {
			if entry.Media != nil {
				mediaList = append(mediaList, entry.Media)
			}
		}
	default:
		mediaList = response.MediaList
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, media := range mediaList {
		fmt.Fprintf(w, "[%s] %s: %s\n", media.ExtractorCodeName, media.ContentID, media.Title)
		if len(media.Formats) == 0 {
			fmt.Fprintln(w, "no formats")
			continue
		}
		defaultFormat := media.GetDefaultFormat()
		fmt.Fprintln(w, "ID\tEXT\tRESOLUTION\tCODECS\tBITRATE\tSIZE\t")
		for _, format := range media.GetSortedFormats() {
			id := format.FormatID
			if format == defaultFormat {
				id += " (default)"
			}
			fmt.Fprintf(
				w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				id,
				format.GetExtension(),
				resolution(format),
				codecs(format),
				bitrate(format.Bitrate),
				size(format.FileSize),
			)
		}
	}
	return w.Flush()
}

func PrintExtractors(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODENAME\tNAME\tTYPE\tCATEGORY\t")
	for _, extractor := range ext.List {
		if extractor.IsRedirect || extractor.IsHidden {
			continue
		}
		name := extractor.Name
		if config.IsExtractorDisabled(extractor) {
			name += " (disabled)"
		}
		fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\t\n",
			extractor.CodeName,
			name,
			extractor.Type,
			extractor.Category,
		)
	}
	return w.Flush()
}

func PrintStats(out io.Writer) error {
	if !database.IsStarted() {
		_, err := fmt.Fprintln(out, "cache: disabled")
		return err
	}
	count, err := database.GetMediaCount()
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}
	_, err = fmt.Fprintf(out, "cache: %s records\n", humanizedInt(count))
	return err
}

func humanizedInt(d int64) string {
	return strings.ReplaceAll(humanize.Comma(d), ",", ".")
}

func firstMedia(response *models.ExtractorResponse) *models.Media {
	if len(response.MediaList) == 0 {
		return nil
	}
	return response.MediaList[0]
}

func resolution(format *models.MediaFormat) string {
	if format.Type == enums.MediaTypeAudio {
		return "audio only"
	}
	if format.Width > 0 && format.Height > 0 {
		return strconv.FormatInt(format.Width, 10) + "x" + strconv.FormatInt(format.Height, 10)
	}
	if format.Height > 0 {
		return strconv.FormatInt(format.Height, 10) + "p"
	}
	return "-"
}

func codecs(format *models.MediaFormat) string {
	var parts []string
	if format.VideoCodec != "" {
		parts = append(parts, string(format.VideoCodec))
	}
	if format.AudioCodec != "" {
		parts = append(parts, string(format.AudioCodec))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "+")
}

func bitrate(bps int64) string {
	if bps <= 0 {
		return "-"
	}
	return humanize.SIWithDigits(float64(bps), 0, "bps")
}

func size(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(bytes))
}
