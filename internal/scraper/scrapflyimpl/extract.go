package scrapflyimpl

import (
	"encoding/json"
	"strings"

	"github.com/jmespath/go-jmespath"

	"github.com/icewatch/x-monitor/internal/scraper"
	"github.com/icewatch/x-monitor/pkg/logger"
)

// The timeline response schema is not stable across X web app versions.
// Extraction paths are tried in order; the first one yielding entries wins.
// When upstream changes shape again, add a path here and cover it with a
// fixture in extract_test.go.
var timelineEntryPaths = []*jmespath.JMESPath{
	jmespath.MustCompile("data.user.result.timeline_v2.timeline.instructions[*].entries[]"),
	jmespath.MustCompile("data.user.result.timeline.timeline.instructions[*].entries[]"),
}

var tweetResultPath = jmespath.MustCompile("content.itemContent.tweet_results.result")

// tweetFields flattens the nested tweet result object into the flat raw
// field names the normalizer consumes.
var tweetFields = jmespath.MustCompile(`{
	created_at: legacy.created_at,
	attached_urls: legacy.entities.urls[].expanded_url,
	attached_media: legacy.entities.media[].media_url_https,
	tagged_users: legacy.entities.user_mentions[].screen_name,
	tagged_hashtags: legacy.entities.hashtags[].text,
	favorite_count: legacy.favorite_count,
	bookmark_count: legacy.bookmark_count,
	quote_count: legacy.quote_count,
	reply_count: legacy.reply_count,
	retweet_count: legacy.retweet_count,
	text: legacy.full_text,
	is_quote: legacy.is_quote_status,
	is_retweet: legacy.retweeted,
	language: legacy.lang,
	user_id: legacy.user_id_str,
	id: legacy.id_str,
	conversation_id: legacy.conversation_id_str,
	source: source,
	views: views.count,
	in_reply_to_status_id: legacy.in_reply_to_status_id_str,
	quoted_status_id: legacy.quoted_status_id_str
}`)

// extractTimeline scans the captured exchanges for the timeline-fetch
// operation and pulls raw tweets out of every matching response. A single
// malformed exchange is skipped; extraction continues with the rest.
func extractTimeline(calls []xhrCall, handle string, log logger.Logger) []scraper.RawTweet {
	var tweets []scraper.RawTweet

	for _, call := range calls {
		if !strings.Contains(call.URL, timelineOperation) {
			continue
		}
		if call.Response == nil || call.Response.Body == "" {
			continue
		}

		var data any
		if err := json.Unmarshal([]byte(call.Response.Body), &data); err != nil {
			log.Warn("Skipping malformed timeline response", "handle", handle, "error", err)
			continue
		}

		for _, entry := range extractEntries(data) {
			result, err := tweetResultPath.Search(entry)
			if err != nil || result == nil {
				continue
			}
			tweet := parseTweet(result)
			if tweet == nil {
				continue
			}
			if id := tweet.String("id"); id != "" {
				tweet["url"] = "https://x.com/" + handle + "/status/" + id
			}
			tweets = append(tweets, tweet)
		}
	}

	return tweets
}

// extractEntries applies the known response-shape paths in order and returns
// the first non-empty entry list.
func extractEntries(data any) []any {
	for _, path := range timelineEntryPaths {
		found, err := path.Search(data)
		if err != nil {
			continue
		}
		if entries, ok := found.([]any); ok && len(entries) > 0 {
			return entries
		}
	}
	return nil
}

// parseTweet flattens a tweet result object into a RawTweet. Entries that
// do not carry a tweet (cursors, promoted modules) yield nil.
func parseTweet(result any) scraper.RawTweet {
	flat, err := tweetFields.Search(result)
	if err != nil {
		return nil
	}
	fields, ok := flat.(map[string]any)
	if !ok {
		return nil
	}
	return scraper.RawTweet(fields)
}
