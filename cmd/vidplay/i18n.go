// Package main provides localization for the vidplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Play video files with presentation-timestamp pacing.": "表示タイムスタンプに合わせて動画ファイルを再生します。",

		// Commands
		"Play a video file in a window.":                        "動画ファイルをウィンドウで再生",
		"Print stream information for video files.":             "動画ファイルのストリーム情報を表示",
		"Write a contact sheet of frames sampled from a video.": "動画から抜き出したフレームのコンタクトシートを出力",
		"Generate a Y4M test clip.":                             "Y4M形式のテスト動画を生成",
		"Show version information.":                             "バージョン情報を表示",
		"vidplay version %s":                                    "vidplay バージョン %s",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"No input file given":           "入力ファイルが指定されていません",
		"No frames were displayed":      "表示されたフレームがありません",
		"Invalid interval: %s":          "無効な間隔です: %s",
		"Invalid frame rate: %d":        "無効なフレームレートです: %d",
		"Invalid color: %s":             "無効な色です: %s",
		"Wrote %d frames to %s":         "%d フレームを %s に書き込みました",

		"%d thumbnails from %d frames, %dx%d sheet written to %s": "%d 枚のサムネイル (%d フレーム中) から %dx%d のシートを作成し %s に書き込みました",

		// Probe output
		"error:":                   "エラー:",
		"format:":                  "形式:",
		"video:":                   "映像:",
		"time base:":               "タイムベース:",
		"frame rate:":              "フレームレート:",
		"duration:":                "再生時間:",
		"bit rate:":                "ビットレート:",
		"%d tracks, fragmented=%v": "%d トラック, 断片化=%v",

		// Summary report
		"Playback Summary":   "再生サマリー",
		"Input":              "入力",
		"Video Stream":       "映像ストリーム",
		"Playback":           "再生",
		"Settings":           "設定",
		"Item":               "項目",
		"Value":              "値",
		"File":               "ファイル",
		"Container":          "コンテナ",
		"File Size":          "ファイルサイズ",
		"Codec":              "コーデック",
		"Pixel Format":       "ピクセル形式",
		"Resolution":         "解像度",
		"Time Base":          "タイムベース",
		"Frame Rate":         "フレームレート",
		"Bit Rate":           "ビットレート",
		"Duration":           "再生時間",
		"Result":             "結果",
		"Error":              "エラー",
		"Frames Decoded":     "デコードしたフレーム",
		"Frames Displayed":   "表示したフレーム",
		"Frames Skipped":     "スキップしたフレーム",
		"Presentation Range": "表示範囲",
		"Wall Time":          "経過時間",
		"Late Frames":        "遅延フレーム",
		"Surface":            "表示先",
		"Window Size":        "ウィンドウサイズ",
		"On Decode Error":    "デコードエラー時",
		"Wait Slice":         "待機単位",
		"End of stream":      "ストリーム終端",
		"Duration reached":   "再生時間に到達",
		"Stopped by user":    "ユーザーが停止",
		"Aborted":            "中断",
		"Unknown":            "不明",
		"None":               "なし",
		"N/A":                "N/A",
		"max":                "最大",
		"Generated by":       "生成:",
	})
}
