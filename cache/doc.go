/*

Package cache is a filesystem-backed content-addressed cache for
complete files, diffs between two file versions, and the partial
updates built from them.

Vocabulary:

- key: hyphen-joined segments naming an entry; a segment of 128
  characters is a hex SHA-512 digest, e.g. "<from>-<to>" for a diff
- category: complete, diff, partial, or none (the cache root itself);
  the same key in two categories names two entries
- identifier: the key with each hex digest segment replaced by its
  URL-safe base64 form, which keeps file names short
- shard: one of the five single-character directories taken from the
  front of the identifier; the rest of the identifier is the file name
- abspath: absolute path of an entry on disk, including shards
- relpath: abspath relative to the cache root, including the category dir
- blank: a zero-length entry; it means some worker has claimed the
  entry and is producing it, so others should wait rather than
  produce it again

Layout:

	<root>/complete/<c1>/<c2>/<c3>/<c4>/<c5>/<remainder>
	<root>/diff/<c1>/<c2>/<c3>/<c4>/<c5>/<remainder>
	<root>/partial/<c1>/<c2>/<c3>/<c4>/<c5>/<remainder>

Entries are written to a temporary file in their own shard directory
and renamed into place, so a reader sees either nothing, the old
entry, or the whole new one.

Because zero length means blank, an empty payload can't be stored.

*/

package cache
